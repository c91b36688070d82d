package opentdb

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"timed-quiz-service/internal/domain"
)

const DefaultBaseURL = "https://opentdb.com/api.php"

// Open Trivia DB response codes.
const (
	codeSuccess       = 0
	codeNoResults     = 1
	codeInvalidParam  = 2
	codeTokenNotFound = 3
	codeTokenEmpty    = 4
	codeRateLimited   = 5
)

// RawQuestion mirrors the Open Trivia DB question payload.
type RawQuestion struct {
	Type             string   `json:"type"`
	Difficulty       string   `json:"difficulty"`
	Category         string   `json:"category"`
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

type apiResponse struct {
	ResponseCode int           `json:"response_code"`
	Results      []RawQuestion `json:"results"`
}

// Client fetches multiple-choice questions from Open Trivia DB.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{httpClient: httpClient, baseURL: baseURL}
}

// FetchQuestions performs a single request; there are no retries.
func (c *Client) FetchQuestions(ctx context.Context, difficulty domain.Difficulty, count int) ([]domain.Question, error) {
	if !difficulty.Valid() || count <= 0 {
		return nil, fmt.Errorf("%w: difficulty=%q count=%d", domain.ErrInvalidRequest, difficulty, count)
	}

	query := url.Values{}
	query.Set("amount", strconv.Itoa(count))
	query.Set("difficulty", string(difficulty))
	query.Set("type", "multiple")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: opentdb returned status %d", domain.ErrTransport, resp.StatusCode)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDecode, err)
	}

	switch payload.ResponseCode {
	case codeSuccess:
	case codeNoResults:
		return nil, domain.ErrEmptyResult
	case codeInvalidParam:
		return nil, fmt.Errorf("%w: opentdb response_code=%d", domain.ErrInvalidRequest, payload.ResponseCode)
	case codeTokenNotFound, codeTokenEmpty, codeRateLimited:
		return nil, fmt.Errorf("%w: opentdb response_code=%d", domain.ErrTransport, payload.ResponseCode)
	default:
		return nil, fmt.Errorf("%w: unknown opentdb response_code=%d", domain.ErrDecode, payload.ResponseCode)
	}

	if len(payload.Results) == 0 {
		return nil, domain.ErrEmptyResult
	}
	return BuildQuestions(payload.Results), nil
}

// BuildQuestions unescapes the HTML entities Open Trivia DB embeds in its text fields and
// assigns each question an id derived from its prompt and answers.
func BuildQuestions(raw []RawQuestion) []domain.Question {
	questions := make([]domain.Question, 0, len(raw))
	for _, item := range raw {
		incorrect := make([]string, 0, len(item.IncorrectAnswers))
		for _, a := range item.IncorrectAnswers {
			incorrect = append(incorrect, html.UnescapeString(a))
		}
		q := domain.Question{
			Category:         html.UnescapeString(item.Category),
			Text:             html.UnescapeString(item.Question),
			CorrectAnswer:    html.UnescapeString(item.CorrectAnswer),
			IncorrectAnswers: incorrect,
			Difficulty:       domain.Difficulty(strings.ToLower(item.Difficulty)),
		}
		q.ID = makeQuestionID(q)
		questions = append(questions, q)
	}
	return questions
}

func makeQuestionID(q domain.Question) string {
	var key strings.Builder
	key.WriteString(q.Text)
	key.WriteString("|")
	key.WriteString(q.CorrectAnswer)
	for _, a := range q.IncorrectAnswers {
		key.WriteString("|")
		key.WriteString(a)
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key.String())).String()
}
