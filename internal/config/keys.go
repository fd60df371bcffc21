package config

// APIKeyStatus describes whether a credential is configured, without
// revealing it.
type APIKeyStatus struct {
	Name   string
	IsSet  bool
	Masked string
}

// CheckAPIKeys reports the configuration state of every credential the
// pipeline can use.
func CheckAPIKeys(cfg *Config) []APIKeyStatus {
	return []APIKeyStatus{
		keyStatus("Gemini", cfg.LLM.GeminiKey),
		keyStatus("OpenAI", cfg.LLM.OpenAIKey),
		keyStatus("Polygon", cfg.News.PolygonKey),
		keyStatus("Finnhub", cfg.News.FinnhubKey),
		keyStatus("NewsAPI", cfg.News.NewsAPIKey),
	}
}

func keyStatus(name, key string) APIKeyStatus {
	return APIKeyStatus{
		Name:   name,
		IsSet:  key != "",
		Masked: maskKey(key),
	}
}

// maskKey shows just enough of a key to recognize it.
func maskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
