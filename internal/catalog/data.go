package catalog

import "github.com/desertthunder/okmusi/internal/models"

var defaultSongs = []models.Song{
	{ID: "1", Title: "Blinding Lights", Artist: "The Weeknd", Album: "After Hours", Duration: "3:20", Genre: "Pop", Year: 2020},
	{ID: "2", Title: "Watermelon Sugar", Artist: "Harry Styles", Album: "Fine Line", Duration: "2:54", Genre: "Pop", Year: 2020},
	{ID: "3", Title: "Levitating", Artist: "Dua Lipa", Album: "Future Nostalgia", Duration: "3:23", Genre: "Pop", Year: 2020},
	{ID: "4", Title: "Good 4 U", Artist: "Olivia Rodrigo", Album: "SOUR", Duration: "2:58", Genre: "Pop Rock", Year: 2021},
	{ID: "5", Title: "Stay", Artist: "The Kid LAROI & Justin Bieber", Album: "F*CK LOVE 3", Duration: "2:21", Genre: "Pop", Year: 2021},
	{ID: "6", Title: "Heat Waves", Artist: "Glass Animals", Album: "Dreamland", Duration: "3:58", Genre: "Indie Pop", Year: 2020},
	{ID: "7", Title: "Industry Baby", Artist: "Lil Nas X & Jack Harlow", Album: "MONTERO", Duration: "3:32", Genre: "Hip Hop", Year: 2021},
	{ID: "8", Title: "Peaches", Artist: "Justin Bieber ft. Daniel Caesar", Album: "Justice", Duration: "3:18", Genre: "R&B", Year: 2021},
}

var defaultArtists = []models.Artist{
	{ID: "1", Name: "The Weeknd", Genre: "Pop/R&B", Followers: "85M", TopSong: "Blinding Lights"},
	{ID: "2", Name: "Harry Styles", Genre: "Pop/Rock", Followers: "42M", TopSong: "Watermelon Sugar"},
	{ID: "3", Name: "Dua Lipa", Genre: "Pop", Followers: "38M", TopSong: "Levitating"},
	{ID: "4", Name: "Olivia Rodrigo", Genre: "Pop Rock", Followers: "25M", TopSong: "Good 4 U"},
}

var defaultAlbums = []models.Album{
	{ID: "1", Title: "After Hours", Artist: "The Weeknd", Year: 2020, TrackCount: 14, Genre: "Pop"},
	{ID: "2", Title: "Fine Line", Artist: "Harry Styles", Year: 2019, TrackCount: 12, Genre: "Pop Rock"},
	{ID: "3", Title: "Future Nostalgia", Artist: "Dua Lipa", Year: 2020, TrackCount: 11, Genre: "Pop"},
	{ID: "4", Title: "SOUR", Artist: "Olivia Rodrigo", Year: 2021, TrackCount: 11, Genre: "Pop Rock"},
}

var popularGenres = []string{
	"Pop", "Rock", "Hip Hop", "R&B", "Electronic", "Jazz", "Classical", "Country", "Indie", "Alternative",
}

var defaultPlaylists = []models.Playlist{
	{ID: "1", Name: "My Favorites", SongCount: 25, Description: "Songs I love the most"},
	{ID: "2", Name: "Workout Mix", SongCount: 18, Description: "High energy tracks"},
	{ID: "3", Name: "Chill Vibes", SongCount: 32, Description: "Relaxing music"},
}

var featuredGenres = []string{
	"Pop", "Rock", "Hip Hop", "Electronic", "Jazz", "Classical", "R&B", "Country",
}

var featuredPlaylists = []models.FeaturedPlaylist{
	{Title: "Today's Top Hits", Description: "The most played songs right now", SongCount: 50},
	{Title: "Chill Vibes", Description: "Relaxing music for any time", SongCount: 75},
	{Title: "Workout Mix", Description: "High energy tracks to keep you moving", SongCount: 40},
	{Title: "Focus Flow", Description: "Instrumental music for concentration", SongCount: 60},
}
