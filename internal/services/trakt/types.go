package trakt

// IDs holds the identifier set Trakt attaches to every item
type IDs struct {
	Trakt int    `json:"trakt"`
	Slug  string `json:"slug"`
	IMDB  string `json:"imdb"`
}

// MovieRef is the movie stub embedded in list and watchlist items
type MovieRef struct {
	Title string `json:"title"`
	Year  int    `json:"year"`
	IDs   IDs    `json:"ids"`
}

// ShowRef is the show stub embedded in list and calendar items
type ShowRef struct {
	Title   string `json:"title"`
	Year    int    `json:"year"`
	Runtime int    `json:"runtime"`
	IDs     IDs    `json:"ids"`
}

// ListItem is one row of a watchlist or custom list
type ListItem struct {
	Type  string    `json:"type"`
	Movie *MovieRef `json:"movie"`
	Show  *ShowRef  `json:"show"`
}

// MovieDetail is the extended=full movie payload
type MovieDetail struct {
	Title    string  `json:"title"`
	Released string  `json:"released"`
	Runtime  int     `json:"runtime"`
	Status   string  `json:"status"`
	Rating   float64 `json:"rating"`
}

// SeasonSummary is one row of the /shows/{id}/seasons payload
type SeasonSummary struct {
	Number       int `json:"number"`
	EpisodeCount int `json:"episode_count"`
}

// EpisodeDetail is one episode of a season payload
type EpisodeDetail struct {
	Season     int    `json:"season"`
	Number     int    `json:"number"`
	Title      string `json:"title"`
	Runtime    int    `json:"runtime"`
	FirstAired string `json:"first_aired"`
}

// CalendarItem is one row of the my-shows calendar payload
type CalendarItem struct {
	FirstAired string `json:"first_aired"`
	Episode    struct {
		Season  int    `json:"season"`
		Number  int    `json:"number"`
		Title   string `json:"title"`
		Runtime int    `json:"runtime"`
	} `json:"episode"`
	Show ShowRef `json:"show"`
}
