package config

const (
	defaultTMDBBaseURL         = "https://api.themoviedb.org/3"
	defaultTMDBImageBaseURL    = "https://image.tmdb.org/t/p/w500"
	defaultTMDBBackdropBaseURL = "https://image.tmdb.org/t/p/w1280"
	defaultTMDBLanguage        = "en-US"
	defaultOMDBBaseURL         = "https://www.omdbapi.com"
	defaultJikanBaseURL        = "https://api.jikan.moe/v4"
	defaultAniListURL          = "https://graphql.anilist.co"
	defaultSessionTTLSeconds   = 600
	defaultStorePath           = "~/.local/share/marquee/marquee.db"
	defaultCardFetchTimeout    = 15
	defaultFreePostsPerDay     = 10
	defaultPremiumPostsPerDay  = 999
	defaultMaxSearchResults    = 5
	defaultNotifyTimeout       = 10
	defaultWebBind             = "127.0.0.1:8080"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultQuality             = "480p | 720p | 1080p"
	defaultAudio               = "Hindi | English"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		TMDB: TMDB{
			BaseURL:         defaultTMDBBaseURL,
			ImageBaseURL:    defaultTMDBImageBaseURL,
			BackdropBaseURL: defaultTMDBBackdropBaseURL,
			Language:        defaultTMDBLanguage,
		},
		OMDB: OMDB{
			BaseURL: defaultOMDBBaseURL,
		},
		Jikan: Jikan{
			BaseURL: defaultJikanBaseURL,
		},
		AniList: AniList{
			URL: defaultAniListURL,
		},
		Session: Session{
			TTLSeconds: defaultSessionTTLSeconds,
		},
		Store: Store{
			Path: defaultStorePath,
		},
		Card: Card{
			FetchTimeoutSeconds: defaultCardFetchTimeout,
		},
		Limits: Limits{
			FreePostsPerDay:    defaultFreePostsPerDay,
			PremiumPostsPerDay: defaultPremiumPostsPerDay,
			MaxSearchResults:   defaultMaxSearchResults,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
		},
		Web: Web{
			Bind: defaultWebBind,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Defaults: Defaults{
			Quality: defaultQuality,
			Audio:   defaultAudio,
		},
	}
}
