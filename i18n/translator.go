package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "key" or "detail").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"invalid_syntax":     "invalid syntax",
		"depth_exceeded":     "maximum nesting depth exceeded",
		"integer_overflow":   "integer exceeds the 128-bit range",
		"string_too_long":    "string too long",
		"duplicate_key":      "duplicate key",
		"truncated":          "truncated",
		"wrong_type":         "wrong type",
		"key_not_found":      "key not found",
		"index_out_of_range": "index out of range",
	},
	"ja": {
		"invalid_syntax":     "構文が不正です",
		"depth_exceeded":     "ネストが最大深度を超えました",
		"integer_overflow":   "整数が128ビットの範囲を超えています",
		"string_too_long":    "文字列が長すぎます",
		"duplicate_key":      "キーが重複しています",
		"truncated":          "打ち切られました",
		"wrong_type":         "型が不正です",
		"key_not_found":      "キーが見つかりません",
		"index_out_of_range": "インデックスが範囲外です",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := dictionaries[t.lang][code]
	if !ok {
		return code
	}
	if k, ok := data["key"]; ok {
		msg += " '" + k + "'"
	}
	if d := data["detail"]; d != "" {
		msg += ": " + d
	}
	return msg
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
