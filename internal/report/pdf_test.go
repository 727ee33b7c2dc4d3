package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"headache-tracker/internal/episode"
)

func TestPeriodDays(t *testing.T) {
	require.Equal(t, 7, PeriodWeek.Days())
	require.Equal(t, 30, PeriodMonth.Days())
}

func TestGeneratorBuild(t *testing.T) {
	eps := []episode.Episode{
		{
			UserID:      1,
			Date:        time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
			Start:       episode.TimeOfDay{Hour: 8},
			Stop:        episode.TimeOfDay{Hour: 9, Minute: 30},
			Medications: "Ibuprofen at 08:15",
			Rating:      7,
			Comments:    "started after a long screen session and faded slowly over the morning",
		},
		{
			UserID:      1,
			Date:        time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC),
			Start:       episode.TimeOfDay{Hour: 14},
			Stop:        episode.TimeOfDay{Hour: 15},
			Medications: episode.NoMedications,
			Rating:      3,
			Comments:    episode.NoComments,
		},
	}

	data, err := NewGenerator("").Build(eps, PeriodWeek)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	require.Equal(t, "%PDF", string(data[:4]))
}

func TestGeneratorBuild_NoEpisodes(t *testing.T) {
	data, err := NewGenerator("").Build(nil, PeriodMonth)
	require.NoError(t, err)
	require.NotEmpty(t, data)
}
