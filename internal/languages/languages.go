package languages

// Language describes one target language of the console: its ISO 639-1 code,
// display name, flag emoji for the output panel header, and the prebuilt
// Gemini TTS voice used for spoken playback.
type Language struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Flag  string `json:"flag"`
	Voice string `json:"voice"`
}

// Targets is the full set of languages the console can translate into.
// The active subset is selected via config (TARGET_LANGS).
var Targets = []Language{
	{Code: "es", Name: "Spanish", Flag: "\U0001F1EA\U0001F1F8", Voice: "Kore"},
	{Code: "fr", Name: "French", Flag: "\U0001F1EB\U0001F1F7", Voice: "Puck"},
	{Code: "ja", Name: "Japanese", Flag: "\U0001F1EF\U0001F1F5", Voice: "Leda"},
	{Code: "de", Name: "German", Flag: "\U0001F1E9\U0001F1EA", Voice: "Charon"},
	{Code: "it", Name: "Italian", Flag: "\U0001F1EE\U0001F1F9", Voice: "Fenrir"},
	{Code: "pt", Name: "Portuguese", Flag: "\U0001F1F5\U0001F1F9", Voice: "Aoede"},
	{Code: "ko", Name: "Korean", Flag: "\U0001F1F0\U0001F1F7", Voice: "Zephyr"},
	{Code: "zh", Name: "Chinese", Flag: "\U0001F1E8\U0001F1F3", Voice: "Orus"},
}

// ByCode looks up a language by its ISO 639-1 code.
func ByCode(code string) (Language, bool) {
	for _, l := range Targets {
		if l.Code == code {
			return l, true
		}
	}
	return Language{}, false
}

// Resolve maps a list of language codes to Language entries, silently
// skipping unknown codes.
func Resolve(codes []string) []Language {
	out := make([]Language, 0, len(codes))
	for _, code := range codes {
		if l, ok := ByCode(code); ok {
			out = append(out, l)
		}
	}
	return out
}
