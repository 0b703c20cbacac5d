package reply

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// ErrMalformedReply — в ответе модели не нашлось ни одного JSON-объекта.
var ErrMalformedReply = errors.New("malformed model reply")

type MalformedReplyError struct {
	Reason string
	Err    error
}

func (e *MalformedReplyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrMalformedReply, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrMalformedReply, e.Reason)
}

func (e *MalformedReplyError) Unwrap() error { return e.Err }

func (e *MalformedReplyError) Is(target error) bool { return target == ErrMalformedReply }

// (?s) — точка захватывает переводы строк, жадно от первой { до последней }
var objectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// ExtractJSON вынимает JSON-объект из ответа модели, даже если он обёрнут
// в ```json ... ``` или окружён текстом.
func ExtractJSON(text string) (map[string]any, error) {
	t := strings.TrimSpace(text)
	if t == "" {
		return nil, &MalformedReplyError{Reason: "empty model output"}
	}

	if strings.HasPrefix(t, "```") {
		t = strings.Trim(t, "`")
		if len(t) >= 4 && strings.EqualFold(t[:4], "json") {
			t = strings.TrimLeft(t[4:], " \t\r\n")
		}
	}

	obj, err := decodeObject(t)
	if err == nil {
		return obj, nil
	}

	m := objectPattern.FindString(t)
	if m == "" {
		return nil, &MalformedReplyError{Reason: "no JSON object found in model output", Err: err}
	}

	obj, err = decodeObject(m)
	if err != nil {
		return nil, &MalformedReplyError{Reason: "unparseable JSON object in model output", Err: err}
	}
	return obj, nil
}

func decodeObject(s string) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil, err
	}
	// "null" декодируется без ошибки в nil-мапу
	if obj == nil {
		return nil, errors.New("not a JSON object")
	}
	return obj, nil
}

// Normalize приводит произвольную мапу к Envelope. Никогда не падает:
// отсутствующие или кривые поля заменяются безопасными значениями.
func Normalize(obj map[string]any) Envelope {
	answer := strings.TrimSpace(stringify(obj["answer"], ""))
	action := strings.TrimSpace(stringify(obj["action"], ActionNone))
	target := strings.TrimSpace(stringify(obj["target"], TargetNone))
	if target == "" {
		target = TargetNone
	}

	if !IsAllowedAction(action) {
		action = ActionNone
	}

	if action == ActionOpenTab {
		t := strings.ToLower(target)
		if IsAllowedTab(t) {
			target = t
		} else {
			target = TargetNone
		}
	}

	return Envelope{Answer: answer, Action: action, Target: target}
}

// Parse = Normalize(ExtractJSON(raw)).
func Parse(raw string) (Envelope, error) {
	obj, err := ExtractJSON(raw)
	if err != nil {
		return Envelope{}, err
	}
	return Normalize(obj), nil
}

func stringify(v any, def string) string {
	switch x := v.(type) {
	case nil:
		return def
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}
