package remotefn

import (
	"encoding/json"
	"fmt"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"
)

// Evaluator abstracts JMESPath operations for testability.
type Evaluator interface {
	Evaluate(expr string, data any) (any, error)
}

type jmespathLibEvaluator struct{}

func (jmespathLibEvaluator) Evaluate(expr string, data any) (any, error) {
	return jmespath.Search(expr, data)
}

// extract pulls a field out of a remote function response using a JMESPath
// expression. An empty expression returns the whole decoded payload.
func extract(eval Evaluator, raw json.RawMessage, expr string) (any, error) {
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("remotefn: decode response: %w", err)
	}
	if strings.TrimSpace(expr) == "" {
		return data, nil
	}
	res, err := eval.Evaluate(expr, data)
	if err != nil {
		return nil, fmt.Errorf("remotefn: evaluate %q: %w", expr, err)
	}
	return res, nil
}

// extractString is extract with a string type assertion for credential-shaped
// fields.
func extractString(eval Evaluator, raw json.RawMessage, expr string) (string, error) {
	v, err := extract(eval, raw, expr)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("remotefn: expression %q did not yield a string", expr)
	}
	return s, nil
}
