package service

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/mosaicnetworks/hashround/src/common"
	"github.com/mosaicnetworks/hashround/src/hashgraph"
	"github.com/mosaicnetworks/hashround/src/snapshot"
	"github.com/sirupsen/logrus"
)

// Service exposes the snapshots of a Store over HTTP.
type Service struct {
	sync.Mutex

	bindAddress      string
	store            snapshot.Store
	mode             hashgraph.AncientMode
	roundsNonAncient int64
	mux              *http.ServeMux
	logger           *logrus.Entry
}

// Stats summarises the content of the store.
type Stats struct {
	Snapshots        int
	FirstRound       int64
	LastRound        int64
	AncientMode      string
	RoundsNonAncient int64
}

// NewService creates a Service reading from store. Event windows are computed
// with mode and roundsNonAncient.
func NewService(bindAddress string,
	store snapshot.Store,
	mode hashgraph.AncientMode,
	roundsNonAncient int64,
	logger *logrus.Entry) *Service {

	service := Service{
		bindAddress:      bindAddress,
		store:            store,
		mode:             mode,
		roundsNonAncient: roundsNonAncient,
		mux:              http.NewServeMux(),
		logger:           logger,
	}

	service.registerHandlers()

	return &service
}

func (s *Service) registerHandlers() {
	s.logger.Debug("Registering API handlers")
	s.mux.HandleFunc("/stats", s.makeHandler(s.GetStats))
	s.mux.HandleFunc("/snapshot/", s.makeHandler(s.GetSnapshot))
	s.mux.HandleFunc("/window/", s.makeHandler(s.GetEventWindow))
}

func (s *Service) makeHandler(fn func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Lock()
		defer s.Unlock()

		// enable CORS
		w.Header().Set("Access-Control-Allow-Origin", "*")

		fn(w, r)
	}
}

// Handler returns the http.Handler serving the API.
func (s *Service) Handler() http.Handler {
	return s.mux
}

// Serve calls ListenAndServe. This is a blocking call.
func (s *Service) Serve() error {
	s.logger.WithField("bind_address", s.bindAddress).Debug("Serving API")

	return http.ListenAndServe(s.bindAddress, s.mux)
}

// GetStats ...
func (s *Service) GetStats(w http.ResponseWriter, r *http.Request) {
	rounds, err := s.store.Rounds()
	if err != nil {
		s.logger.WithError(err).Error("Listing rounds")

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	stats := Stats{
		Snapshots:        len(rounds),
		AncientMode:      s.mode.String(),
		RoundsNonAncient: s.roundsNonAncient,
	}
	if len(rounds) > 0 {
		stats.FirstRound = rounds[0]
		stats.LastRound = rounds[len(rounds)-1]
	}

	w.Header().Set("Content-Type", "application/json")

	json.NewEncoder(w).Encode(stats)
}

// GetSnapshot writes the encoded snapshot of the round given in the path, or
// the last snapshot for /snapshot/last.
func (s *Service) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.lookup(w, r.URL.Path[len("/snapshot/"):])
	if !ok {
		return
	}

	data, err := snap.Marshal()
	if err != nil {
		s.logger.WithError(err).Errorf("Encoding snapshot %d", snap.Round)

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	w.Write(data)
}

// GetEventWindow writes the event window derived from the snapshot of the
// round given in the path, or from the last snapshot for /window/last.
func (s *Service) GetEventWindow(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.lookup(w, r.URL.Path[len("/window/"):])
	if !ok {
		return
	}

	window := snapshot.GenesisEventWindow(s.mode)
	if !snap.IsGenesis() {
		var err error
		window, err = snapshot.CreateEventWindow(snap, s.mode, s.roundsNonAncient)
		if err != nil {
			s.logger.WithError(err).Errorf("Creating event window of round %d", snap.Round)

			http.Error(w, err.Error(), http.StatusInternalServerError)

			return
		}
	}

	w.Header().Set("Content-Type", "application/json")

	json.NewEncoder(w).Encode(window)
}

func (s *Service) lookup(w http.ResponseWriter, param string) (*snapshot.ConsensusSnapshot, bool) {
	var (
		snap *snapshot.ConsensusSnapshot
		err  error
	)

	if param == "last" {
		snap, err = s.store.LastSnapshot()
	} else {
		round, perr := strconv.ParseInt(param, 10, 64)
		if perr != nil {
			s.logger.WithError(perr).Errorf("Parsing round parameter %s", param)

			http.Error(w, perr.Error(), http.StatusBadRequest)

			return nil, false
		}
		snap, err = s.store.GetSnapshot(round)
	}

	if err != nil {
		status := http.StatusInternalServerError
		if common.IsStore(err, common.KeyNotFound) || common.IsStore(err, common.Empty) {
			status = http.StatusNotFound
		}

		s.logger.WithError(err).Errorf("Retrieving snapshot %s", param)

		http.Error(w, err.Error(), status)

		return nil, false
	}

	return snap, true
}
