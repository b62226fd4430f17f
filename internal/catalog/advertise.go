package catalog

import (
	"slices"
	"strings"

	"github.com/eslavnov/wyoming-cloud-streamer/internal/programinfo"
	"github.com/eslavnov/wyoming-cloud-streamer/internal/wyoming"
)

// Advertise sorts the descriptors ascending by canonical name and
// wraps them with the program metadata into the info payload handed to
// the protocol layer. The input slice is not modified. The result is
// built once at startup and treated as immutable for the lifetime of
// the process.
func Advertise(voices []wyoming.TtsVoice, program programinfo.Metadata) wyoming.Info {
	sorted := slices.Clone(voices)
	slices.SortStableFunc(sorted, func(a, b wyoming.TtsVoice) int {
		return strings.Compare(a.Name, b.Name)
	})

	return wyoming.Info{
		Tts: []wyoming.TtsProgram{
			{
				Name:                        program.Name,
				Description:                 program.Description,
				Attribution:                 program.Attribution,
				Installed:                   true,
				Voices:                      sorted,
				Version:                     program.Version,
				SupportsSynthesizeStreaming: true,
			},
		},
	}
}
