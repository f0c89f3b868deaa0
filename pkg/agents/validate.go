package agents

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/MikeDean2367/welfare-diplomacy/pkg/diplomacy"
)

// roleEchoDelimiter is the chat-template role marker some models echo after
// their answer. Everything from the first occurrence on is discarded.
const roleEchoDelimiter = "<|im_end|>"

// reasoningPlaceholder stands in when the model omits the reasoning key.
const reasoningPlaceholder = "(no reasoning provided)"

// ValidateResponse repairs a raw model completion into the reasoning,
// orders and messages of an AgentResponse. The pipeline is permissive about
// cosmetic deviations (surrounding prose, wrapped message lists, wrong
// recipient casing) and strict about structural ones (missing JSON braces,
// non-string orders). Every failure is reported as a *CompletionError
// carrying the raw text.
func ValidateResponse(raw string, rules diplomacy.Rules) (*AgentResponse, error) {
	body := stripRoleEcho(raw)

	span, err := extractJSONSpan(body)
	if err != nil {
		return nil, NewCompletionError(err, raw)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(escapeControlChars(span)), &doc); err != nil {
		return nil, NewCompletionError(errors.Wrap(err, "parsing response JSON"), raw)
	}

	reasoning := extractReasoning(doc)

	orders, err := extractOrders(doc)
	if err != nil {
		return nil, NewCompletionError(err, raw)
	}

	messages, err := normalizeMessages(doc["messages"], rules.NoPress)
	if err != nil {
		return nil, NewCompletionError(err, raw)
	}

	return &AgentResponse{
		Reasoning: reasoning,
		Orders:    orders,
		Messages:  messages,
	}, nil
}

// stripRoleEcho drops trailing role-marker artifacts and surrounding
// whitespace and backticks.
func stripRoleEcho(raw string) string {
	body, _, _ := strings.Cut(raw, roleEchoDelimiter)
	return strings.Trim(body, " \t\r\n`")
}

// extractJSONSpan slices the text to the first '{' through the last '}',
// tolerating prose the model wrapped around the object.
func extractJSONSpan(body string) (string, error) {
	start := strings.Index(body, "{")
	end := strings.LastIndex(body, "}")
	if start == -1 || end == -1 || end < start {
		return "", errors.New("no JSON object found in completion")
	}
	return body[start : end+1], nil
}

// escapeControlChars rewrites raw control characters inside JSON string
// values into \u escapes, since models regularly emit literal newlines in
// reasoning text.
func escapeControlChars(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	inString := false
	escaped := false
	for _, r := range s {
		if !inString {
			if r == '"' {
				inString = true
			}
			sb.WriteRune(r)
			continue
		}
		if escaped {
			escaped = false
			sb.WriteRune(r)
			continue
		}
		switch {
		case r == '\\':
			escaped = true
			sb.WriteRune(r)
		case r == '"':
			inString = false
			sb.WriteRune(r)
		case r < 0x20:
			fmt.Fprintf(&sb, `\u%04x`, r)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func extractReasoning(doc map[string]interface{}) string {
	if s, ok := doc["reasoning"].(string); ok {
		return s
	}
	return reasoningPlaceholder
}

func extractOrders(doc map[string]interface{}) ([]string, error) {
	raw, ok := doc["orders"]
	if !ok {
		return nil, errors.New("response has no orders key")
	}
	list, ok := raw.([]interface{})
	if !ok {
		return nil, errors.Errorf("orders is not a list (got %T)", raw)
	}
	orders := make([]string, 0, len(list))
	for i, el := range list {
		s, ok := el.(string)
		if !ok {
			return nil, errors.Errorf("orders[%d] is not a string (got %T)", i, el)
		}
		orders = append(orders, s)
	}
	return orders, nil
}

// normalizeMessages canonicalizes the messages object: recipients are
// upper-cased, list values are joined with single spaces, non-string values
// are stringified, and empty messages are dropped. When the ruleset
// disables press the result is empty regardless of what the model produced.
func normalizeMessages(raw interface{}, noPress bool) (map[string]string, error) {
	messages := map[string]string{}
	if noPress || raw == nil {
		return messages, nil
	}
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil, errors.Errorf("messages is not an object (got %T)", raw)
	}
	for recipient, value := range m {
		text := coerceMessageText(value)
		if text == "" {
			continue
		}
		messages[strings.ToUpper(recipient)] = text
	}
	return messages, nil
}

func coerceMessageText(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, el := range v {
			s, ok := el.(string)
			if !ok {
				s = fmt.Sprintf("%v", el)
			}
			s = strings.TrimSpace(s)
			if s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	default:
		return fmt.Sprintf("%v", v)
	}
}
