package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mosaicnetworks/hashround/src/common"
	"github.com/mosaicnetworks/hashround/src/hashgraph"
	"github.com/mosaicnetworks/hashround/src/snapshot"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) *Service {
	store := snapshot.NewInmemStore()
	require.NoError(t, store.SetSnapshot(snapshot.GenesisSnapshot(hashgraph.GenerationThreshold)))

	infos := []hashgraph.MinimumJudgeInfo{}
	for r := int64(1); r <= 5; r++ {
		infos = append(infos, hashgraph.NewMinimumJudgeInfo(r, r*10))
	}
	require.NoError(t, store.SetSnapshot(&snapshot.ConsensusSnapshot{
		Round:                5,
		JudgeHashes:          [][]byte{[]byte("judge")},
		MinimumJudgeInfoList: infos,
		NextConsensusOrder:   42,
		ConsensusTimestamp:   time.Unix(100, 0).UTC(),
	}))

	logger := common.NewTestLogger(t, logrus.InfoLevel).WithField("component", "service")

	return NewService("127.0.0.1:0", store, hashgraph.GenerationThreshold, 3, logger)
}

func get(s *Service, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestGetStats(t *testing.T) {
	rec := get(newService(t), "/stats")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	var stats Stats
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&stats))
	assert.Equal(t, Stats{
		Snapshots:        2,
		FirstRound:       1,
		LastRound:        5,
		AncientMode:      "generation",
		RoundsNonAncient: 3,
	}, stats)
}

func TestGetSnapshot(t *testing.T) {
	s := newService(t)

	for _, path := range []string{"/snapshot/5", "/snapshot/last"} {
		rec := get(s, path)
		require.Equal(t, http.StatusOK, rec.Code, path)

		var snap snapshot.ConsensusSnapshot
		require.NoError(t, snap.Unmarshal(rec.Body.Bytes()), path)
		assert.Equal(t, int64(5), snap.Round, path)
		assert.Equal(t, int64(42), snap.NextConsensusOrder, path)
	}

	assert.Equal(t, http.StatusNotFound, get(s, "/snapshot/4").Code)
	assert.Equal(t, http.StatusBadRequest, get(s, "/snapshot/four").Code)
}

func TestGetEventWindow(t *testing.T) {
	s := newService(t)

	rec := get(s, "/window/5")
	require.Equal(t, http.StatusOK, rec.Code)

	var w snapshot.EventWindow
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&w))
	assert.Equal(t, snapshot.NewEventWindow(5, 30, 10, hashgraph.GenerationThreshold), w)

	rec = get(s, "/window/1")
	require.Equal(t, http.StatusOK, rec.Code)

	w = snapshot.EventWindow{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&w))
	assert.Equal(t, snapshot.GenesisEventWindow(hashgraph.GenerationThreshold), w)
}
