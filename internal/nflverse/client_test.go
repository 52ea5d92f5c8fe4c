package nflverse

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewClient(srv.URL, 5*time.Second, 100, logger)
}

func gzipBytes(t *testing.T, data string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(data))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestFetchWeeklyStatsGzip(t *testing.T) {
	csv := "player_id,player_display_name,recent_team,position,season,week,passing_yards,passing_tds,interceptions,rushing_yards\n" +
		"00-0011111,Joe Passer,KC,QB,2024,3,287,2,1,12\n" +
		"00-0022222,Ray Runner,SF,RB,2024,3,NA,0,0,104\n"

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/player_stats/player_stats_2024.csv.gz", r.URL.Path)
		w.Write(gzipBytes(t, csv))
	})

	rows, err := c.FetchWeeklyStats(context.Background(), 2024)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "00-0011111", rows[0].PlayerID)
	assert.Equal(t, "Joe Passer", rows[0].Name)
	assert.Equal(t, "KC", rows[0].Team)
	assert.Equal(t, 3, rows[0].Week)
	assert.Equal(t, 287.0, rows[0].Stats.PassingYards)
	assert.Equal(t, 2.0, rows[0].Stats.PassingTDs)

	// "NA" and absent columns decode as zero.
	assert.Equal(t, 0.0, rows[1].Stats.PassingYards)
	assert.Equal(t, 0.0, rows[1].Stats.ReceivingYards)
	assert.Equal(t, 104.0, rows[1].Stats.RushingYards)
}

func TestColumnAliasResolution(t *testing.T) {
	// Older releases use player_name/team instead of the current names.
	csv := "gsis_id,player_name,team,pos,season,week,pass_yds\n" +
		"00-0033333,Old Name,DEN,WR,2019,1,0\n"

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(csv))
	})

	rows, err := c.FetchWeeklyStats(context.Background(), 2019)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "00-0033333", rows[0].PlayerID)
	assert.Equal(t, "Old Name", rows[0].Name)
	assert.Equal(t, "DEN", rows[0].Team)
	assert.Equal(t, "WR", rows[0].Position)
}

func TestMissingRequiredColumn(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("foo,bar\n1,2\n"))
	})

	_, err := c.FetchWeeklyStats(context.Background(), 2024)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no column found")
}

func TestNotAvailableOn404(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := c.FetchWeeklyStats(context.Background(), 2031)
	require.Error(t, err)
	assert.True(t, IsNotAvailable(err))

	var na *ErrNotAvailable
	require.ErrorAs(t, err, &na)
	assert.Equal(t, 2031, na.Season)
	assert.Equal(t, "player_stats", na.Asset)
}

func TestRepeated404sStayNotAvailable(t *testing.T) {
	// Pending assets are polled every refresh cycle; the breaker must not
	// open on 404s or a later poll would see a breaker error instead of the
	// typed pending signal.
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	for i := 0; i < 5; i++ {
		_, err := c.FetchWeeklyStats(context.Background(), 2031)
		require.Error(t, err)
		assert.True(t, IsNotAvailable(err), "poll %d", i+1)
	}
}

func TestFetchRosters(t *testing.T) {
	csv := "season,week,team,position,full_name,gsis_id,pfr_id,espn_id,college\n" +
		"2024,1,KC,QB,Joe Passer,00-0011111,PassJo00,12345,Alabama\n"

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(gzipBytes(t, csv))
	})

	rows, err := c.FetchRosters(context.Background(), 2024)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "00-0011111", rows[0].GsisID)
	assert.Equal(t, "PassJo00", rows[0].PfrID)
	assert.Equal(t, "12345", rows[0].EspnID)
	assert.Equal(t, "Alabama", rows[0].College)
	assert.Equal(t, 1, rows[0].Week)
}

func TestFetchScheduleFiltersSeason(t *testing.T) {
	csv := "season,week,game_type,gameday,gametime\n" +
		"2023,18,REG,2024-01-07,13:00\n" +
		"2024,1,REG,2024-09-08,13:00\n" +
		"2024,1,REG,2024-09-09,20:15\n"

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/schedules/games.csv", r.URL.Path)
		w.Write([]byte(csv))
	})

	games, err := c.FetchSchedule(context.Background(), 2024)
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, 2024, games[0].Season)
	assert.Equal(t, "REG", games[0].GameType)
	assert.False(t, games[0].Kickoff.IsZero())

	_, err = c.FetchSchedule(context.Background(), 1999)
	assert.True(t, IsNotAvailable(err))
}

func TestDecompressPassthrough(t *testing.T) {
	plain := []byte("a,b\n1,2\n")
	out, err := decompress(plain)
	require.NoError(t, err)
	assert.Equal(t, plain, out)
}
