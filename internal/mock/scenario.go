package mock

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Scenario scripts the stub service.
type Scenario struct {
	Health    map[string]any `yaml:"health,omitempty"`
	Responses []Response     `yaml:"responses"`
}

// Response is one scripted reply to POST /generate.
// Responses are served in order; the last one repeats.
type Response struct {
	Status     string        `yaml:"status"`                // Envelope status ("success", "error", ...)
	Data       any           `yaml:"data,omitempty"`        // Survey payload for success responses
	Message    string        `yaml:"message,omitempty"`     // Envelope message for failures
	HTTPStatus int           `yaml:"http_status,omitempty"` // Defaults to 200 for success, 500 otherwise
	Delay      time.Duration `yaml:"delay,omitempty"`       // Simulated generation time
}

// DefaultScenario returns a scenario with a single sample survey
func DefaultScenario() *Scenario {
	return &Scenario{
		Health: map[string]any{"status": "healthy", "service": "survey API (stub)"},
		Responses: []Response{{
			Status: "success",
			Data: map[string]any{
				"survey_name":  "Customer Satisfaction Survey",
				"survey_intro": "Thank you for taking a few minutes to tell us about your experience.",
				"questions": []any{
					map[string]any{
						"question_text": "How often do you use our product?【单选】",
						"options":       []any{"Daily", "Weekly", "Monthly", "Rarely"},
					},
					map[string]any{
						"question_text": "Overall, how satisfied are you?【单选】",
						"options":       []any{"Very dissatisfied", "Dissatisfied", "Neutral", "Satisfied", "Very satisfied"},
					},
					map[string]any{
						"question_text": "What could we improve?",
					},
				},
			},
		}},
	}
}

// LoadScenario reads a YAML scenario file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("failed to parse scenario file: %w", err)
	}

	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// Validate checks the scenario for mistakes
func (s *Scenario) Validate() error {
	if len(s.Responses) == 0 {
		return fmt.Errorf("no responses defined")
	}

	for i, r := range s.Responses {
		if r.Status == "" {
			return fmt.Errorf("response %d: status is required", i)
		}
		if r.HTTPStatus != 0 && (r.HTTPStatus < 100 || r.HTTPStatus > 599) {
			return fmt.Errorf("response %d: invalid http_status %d", i, r.HTTPStatus)
		}
		if r.Delay < 0 {
			return fmt.Errorf("response %d: delay must not be negative", i)
		}
	}

	return nil
}

// httpStatus returns the HTTP status code to reply with
func (r Response) httpStatus() int {
	if r.HTTPStatus != 0 {
		return r.HTTPStatus
	}
	if r.Status == "success" {
		return 200
	}
	return 500
}
