package domain

import "strings"

// Tipos de mídia (containers) conhecidos pela agência
const (
	MediaTelevision     = "television"
	MediaRadio          = "radio"
	MediaNewspaper      = "newspaper"
	MediaMagazines      = "magazines"
	MediaOOH            = "ooh"
	MediaCinema         = "cinema"
	MediaDigitalDisplay = "digital_display"
	MediaDigitalAudio   = "digital_audio"
	MediaDigitalVideo   = "digital_video"
	MediaBVOD           = "bvod"
	MediaSearch         = "search"
	MediaSocial         = "social_media"
	MediaIntegration    = "integration"
	MediaInfluencers    = "influencers"
	MediaProgDisplay    = "programmatic_display"
	MediaProgVideo      = "programmatic_video"
	MediaProgBVOD       = "programmatic_bvod"
	MediaProgAudio      = "programmatic_audio"
	MediaProgOOH        = "programmatic_ooh"
)

var mediaAliases = map[string]string{
	"tv":                   MediaTelevision,
	"television":           MediaTelevision,
	"radio":                MediaRadio,
	"newspaper":            MediaNewspaper,
	"newspapers":           MediaNewspaper,
	"magazine":             MediaMagazines,
	"magazines":            MediaMagazines,
	"ooh":                  MediaOOH,
	"cinema":               MediaCinema,
	"digidisplay":          MediaDigitalDisplay,
	"digital_display":      MediaDigitalDisplay,
	"digiaudio":            MediaDigitalAudio,
	"digital_audio":        MediaDigitalAudio,
	"digivideo":            MediaDigitalVideo,
	"digital_video":        MediaDigitalVideo,
	"bvod":                 MediaBVOD,
	"search":               MediaSearch,
	"social":               MediaSocial,
	"socialmedia":          MediaSocial,
	"social_media":         MediaSocial,
	"integration":          MediaIntegration,
	"influencers":          MediaInfluencers,
	"progdisplay":          MediaProgDisplay,
	"programmatic_display": MediaProgDisplay,
	"progvideo":            MediaProgVideo,
	"programmatic_video":   MediaProgVideo,
	"progbvod":             MediaProgBVOD,
	"programmatic_bvod":    MediaProgBVOD,
	"progaudio":            MediaProgAudio,
	"programmatic_audio":   MediaProgAudio,
	"progooh":              MediaProgOOH,
	"programmatic_ooh":     MediaProgOOH,
}

// NormalizeMediaType converte apelidos de containers para o nome canônico.
// Tipos desconhecidos são devolvidos em minúsculas, sem rejeição.
func NormalizeMediaType(value string) string {
	key := strings.ToLower(strings.TrimSpace(value))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	if canonical, ok := mediaAliases[key]; ok {
		return canonical
	}
	return key
}
