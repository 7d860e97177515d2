package ltproxy

import "strings"

// LanguageNames maps LibreTranslate language codes to human-readable names.
var LanguageNames = map[string]string{
	"ar": "Arabic",
	"az": "Azerbaijani",
	"bg": "Bulgarian",
	"bn": "Bengali",
	"ca": "Catalan",
	"cs": "Czech",
	"da": "Danish",
	"de": "German",
	"el": "Greek",
	"en": "English",
	"eo": "Esperanto",
	"es": "Spanish",
	"et": "Estonian",
	"fa": "Persian",
	"fi": "Finnish",
	"fr": "French",
	"ga": "Irish",
	"he": "Hebrew",
	"hi": "Hindi",
	"hu": "Hungarian",
	"id": "Indonesian",
	"it": "Italian",
	"ja": "Japanese",
	"ko": "Korean",
	"lt": "Lithuanian",
	"lv": "Latvian",
	"ms": "Malay",
	"nb": "Norwegian Bokmål",
	"nl": "Dutch",
	"pl": "Polish",
	"pt": "Portuguese",
	"ro": "Romanian",
	"ru": "Russian",
	"sk": "Slovak",
	"sl": "Slovenian",
	"sq": "Albanian",
	"sv": "Swedish",
	"th": "Thai",
	"tl": "Tagalog",
	"tr": "Turkish",
	"uk": "Ukrainian",
	"ur": "Urdu",
	"vi": "Vietnamese",
	"zh": "Chinese (Simplified)",
	"zt": "Chinese (Traditional)",
}

// GetLanguageName returns the human-readable name for a language code.
// Regional variants ("pt-BR", "es_MX") resolve to their base language.
// Falls back to the code itself if not found.
func GetLanguageName(langCode string) string {
	if name, ok := LanguageNames[langCode]; ok {
		return name
	}
	if name, ok := LanguageNames[baseLang(langCode)]; ok {
		return name
	}
	return langCode
}

// IsAutoDetect reports whether a source language asks the backend to detect it.
func IsAutoDetect(langCode string) bool {
	return langCode == "" || strings.EqualFold(langCode, DefaultSourceLang)
}

// baseLang extracts the base language code (e.g., "pt" from "pt-BR" or "pt_BR").
func baseLang(lang string) string {
	lang = strings.ToLower(lang)
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		return lang[:i]
	}
	return lang
}
