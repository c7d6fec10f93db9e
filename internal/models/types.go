package models

// MediaType represents the kind of media an entry tracks
type MediaType string

const (
	MediaTypeMovie      MediaType = "movie"
	MediaTypeShowSeason MediaType = "show-season"
	MediaTypeBook       MediaType = "book"
	MediaTypeBookEd     MediaType = "educational-book"
	MediaTypeComic      MediaType = "comic"
	MediaTypeGame       MediaType = "game"
	MediaTypeGameVR     MediaType = "game-vr"
	MediaTypeGameMobile MediaType = "game-mobile"
)

// Source names used as the first half of an entry's external identity
const (
	SourceTrakt     = "trakt"
	SourceHLTB      = "hltb"
	SourceGoodreads = "goodreads"
	SourceSteam     = "steam"
)

// Default shelves that must always exist
const (
	ShelfIcebox   = "Icebox"
	ShelfBacklog  = "Backlog"
	ShelfUpcoming = "Upcoming"
)
