package i18n

import "sync"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "detail" carrying the parser's description).
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dict = map[string]map[string]string{
	"en": {
		"parse_error":    "malformed JSON",
		"duplicate_key":  "duplicate key",
		"max_depth":      "nesting too deep",
		"truncated":      "input too large",
		"invalid_type":   "invalid type",
		"unknown_key":    "unknown key",
		"hook_failed":    "post-mapping hook failed",
		"invalid_target": "unsupported target",
	},
	"ja": {
		"parse_error":    "JSONの形式が不正です",
		"duplicate_key":  "キーが重複しています",
		"max_depth":      "ネストが深すぎます",
		"truncated":      "入力が大きすぎます",
		"invalid_type":   "型が不正です",
		"unknown_key":    "未知のキーです",
		"hook_failed":    "マッピング後の処理に失敗しました",
		"invalid_target": "対応していない変換先です",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := dict[t.lang][code]
	if !ok {
		msg = code
	}
	if d := data["detail"]; d != "" {
		msg += " (" + d + ")"
	}
	return msg
}

var (
	mu                           = sync.RWMutex{}
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	SetTranslator(dictTranslator{lang: lang})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
