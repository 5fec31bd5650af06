package matchfile_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	service "github.com/okian/elo/internal/app"
	"github.com/okian/elo/internal/matchfile"
	"github.com/okian/elo/pkg/elo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const teamMatchTOML = `
kind = "team_match"
strategy = "weighted"

[[teams]]
score = 1
players = [{ id = "a", rating = 700 }, { id = "b", rating = 1150 }]

[[teams]]
score = 0
players = [{ id = "c", rating = 1300 }, { id = "d", rating = 1000 }]
`

const freeForAllYAML = `
kind: free_for_all
standings:
  - { id: p1, rating: 1000, score: 4 }
  - { id: p2, rating: 1200, score: 3 }
  - { id: p3, rating: 1300, score: 2 }
  - { id: p4, rating: 1500, score: 1 }
`

const duelJSON = `{"winner": {"id": "a", "rating": 1200}, "loser": {"id": "b", "rating": 1200}, "k_factor": 40}`

func ratings(results []elo.Result) []float64 {
	out := make([]float64, len(results))
	for i, r := range results {
		out[i] = r.Rating
	}
	return out
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("toml team match", func(t *testing.T) {
		doc, err := matchfile.Load(writeFile(t, "match.toml", teamMatchTOML))
		require.NoError(t, err)
		assert.Equal(t, matchfile.KindTeamMatch, doc.ResolvedKind())

		results, err := doc.Calculate()
		require.NoError(t, err)
		assert.Equal(t, []float64{709, 1165, 1286, 990}, ratings(results))
	})

	t.Run("yaml free-for-all", func(t *testing.T) {
		doc, err := matchfile.Load(writeFile(t, "match.yml", freeForAllYAML))
		require.NoError(t, err)

		results, err := doc.Calculate()
		require.NoError(t, err)
		assert.Equal(t, []float64{1038, 1211, 1289, 1462}, ratings(results))
	})

	t.Run("json duel with inferred kind", func(t *testing.T) {
		doc, err := matchfile.Load(writeFile(t, "match.json", duelJSON))
		require.NoError(t, err)
		assert.Equal(t, matchfile.KindDuel, doc.ResolvedKind())

		results, err := doc.Calculate()
		require.NoError(t, err)
		assert.Equal(t, []float64{1220, 1180}, ratings(results))
	})

	t.Run("unknown extension", func(t *testing.T) {
		_, err := matchfile.Load(writeFile(t, "match.txt", duelJSON))
		assert.ErrorIs(t, err, matchfile.ErrUnknownFormat)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := matchfile.Load(filepath.Join(t.TempDir(), "absent.toml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestDecode(t *testing.T) {
	t.Run("unknown keys are rejected", func(t *testing.T) {
		for format, body := range map[matchfile.Format]string{
			matchfile.FormatTOML: "kind = \"duel\"\nreferee = \"x\"\n",
			matchfile.FormatYAML: "kind: duel\nreferee: x\n",
			matchfile.FormatJSON: `{"kind":"duel","referee":"x"}`,
		} {
			_, err := matchfile.Decode(strings.NewReader(body), format)
			assert.ErrorIs(t, err, matchfile.ErrDecode, string(format))
		}
	})

	t.Run("malformed input", func(t *testing.T) {
		_, err := matchfile.Decode(strings.NewReader("kind = "), matchfile.FormatTOML)
		assert.ErrorIs(t, err, matchfile.ErrDecode)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := matchfile.Decode(strings.NewReader(duelJSON), matchfile.Format("xml"))
		assert.ErrorIs(t, err, matchfile.ErrUnknownFormat)
	})
}

func TestDocumentCalculate(t *testing.T) {
	t.Run("overrides beat the document", func(t *testing.T) {
		doc, err := matchfile.Decode(strings.NewReader(duelJSON), matchfile.FormatJSON)
		require.NoError(t, err)

		results, err := doc.Calculate(elo.WithKFactor(16))
		require.NoError(t, err)
		assert.Equal(t, 8, results[0].Delta)
	})

	t.Run("draw", func(t *testing.T) {
		doc := matchfile.Document{
			Winner: &matchfile.Player{ID: "a", Rating: 1100},
			Loser:  &matchfile.Player{ID: "b", Rating: 1000},
			Draw:   true,
		}
		results, err := doc.Calculate()
		require.NoError(t, err)
		assert.Equal(t, -2, results[0].Delta)
		assert.Equal(t, 2, results[1].Delta)
	})

	t.Run("multi-team inferred from three teams", func(t *testing.T) {
		doc := matchfile.Document{Teams: []matchfile.Team{
			{Score: 3, Players: []matchfile.Player{{ID: "a", Rating: 1000}}},
			{Score: 2, Players: []matchfile.Player{{ID: "b", Rating: 1000}}},
			{Score: 1, Players: []matchfile.Player{{ID: "c", Rating: 1000}}},
		}}
		assert.Equal(t, matchfile.KindMultiTeamMatch, doc.ResolvedKind())

		results, err := doc.Calculate()
		require.NoError(t, err)
		assert.Equal(t, 0, elo.TotalDelta(results))
	})

	t.Run("duel without a loser", func(t *testing.T) {
		doc := matchfile.Document{Kind: matchfile.KindDuel, Winner: &matchfile.Player{ID: "a", Rating: 1000}}
		_, err := doc.Calculate()
		assert.ErrorIs(t, err, elo.ErrTooFewTeams)
	})

	t.Run("team match with one team", func(t *testing.T) {
		doc := matchfile.Document{Kind: matchfile.KindTeamMatch, Teams: []matchfile.Team{
			{Score: 1, Players: []matchfile.Player{{ID: "a", Rating: 1000}}},
		}}
		_, err := doc.Calculate()
		assert.ErrorIs(t, err, elo.ErrTooFewTeams)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := matchfile.Document{Kind: "relay"}.Calculate()
		assert.ErrorIs(t, err, matchfile.ErrUnknownKind)
	})

	t.Run("kinds are the batch API kinds", func(t *testing.T) {
		for _, kind := range []service.Kind{
			service.KindDuel, service.KindFreeForAll, service.KindTeamMatch, service.KindMultiTeamMatch,
		} {
			doc, err := matchfile.Decode(strings.NewReader(`{"kind":"`+string(kind)+`"}`), matchfile.FormatJSON)
			require.NoError(t, err)
			assert.Equal(t, kind, doc.ResolvedKind())
		}
	})

	t.Run("explicit zero k-factor is rejected", func(t *testing.T) {
		for format, body := range map[matchfile.Format]string{
			matchfile.FormatTOML: "k_factor = 0\n[winner]\nid = \"a\"\nrating = 1200\n[loser]\nid = \"b\"\nrating = 1200\n",
			matchfile.FormatYAML: "k_factor: 0\nwinner: {id: a, rating: 1200}\nloser: {id: b, rating: 1200}\n",
			matchfile.FormatJSON: `{"k_factor": 0, "winner": {"id": "a", "rating": 1200}, "loser": {"id": "b", "rating": 1200}}`,
		} {
			doc, err := matchfile.Decode(strings.NewReader(body), format)
			require.NoError(t, err, string(format))
			require.NotNil(t, doc.KFactor, string(format))

			_, err = doc.Calculate()
			assert.ErrorIs(t, err, elo.ErrInvalidKFactor, string(format))
		}
	})

	t.Run("omitted k-factor uses the default", func(t *testing.T) {
		doc := matchfile.Document{
			Winner: &matchfile.Player{ID: "a", Rating: 1200},
			Loser:  &matchfile.Player{ID: "b", Rating: 1200},
		}
		results, err := doc.Calculate()
		require.NoError(t, err)
		assert.Equal(t, 8, results[0].Delta)
	})

	t.Run("bad strategy", func(t *testing.T) {
		_, err := matchfile.Document{Strategy: "split"}.Calculate()
		assert.ErrorIs(t, err, elo.ErrUnknownStrategy)
	})
}
