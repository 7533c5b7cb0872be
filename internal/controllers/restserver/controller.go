// Package restserver serves the latest capacity readings over HTTP.
package restserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/edwenger/larval-habitat/internal/log"
	"github.com/edwenger/larval-habitat/internal/types"
	"github.com/edwenger/larval-habitat/pkg/config"
	"github.com/edwenger/larval-habitat/pkg/responseformat"
	"github.com/gorilla/mux"
)

// Controller is an HTTP server exposing the most recent capacity reading
// per habitat.  It consumes readings from the storage distributor like any
// other storage engine, keeping an in-memory latest-reading cache.
type Controller struct {
	cfg       config.RESTServerData
	formatter *responseformat.Formatter

	mu     sync.RWMutex
	latest map[string]types.CapacityReading

	server *http.Server
}

// New creates a REST server controller from its configuration
func New(cfg *config.RESTServerData) (*Controller, error) {
	if cfg.Port == 0 {
		return nil, fmt.Errorf("REST server requires a port")
	}

	c := &Controller{
		cfg:       *cfg,
		formatter: responseformat.NewFormatter(),
		latest:    make(map[string]types.CapacityReading),
	}

	router := mux.NewRouter()
	router.HandleFunc("/capacity", c.handleAllCapacities).Methods(http.MethodGet)
	router.HandleFunc("/capacity/{habitat}", c.handleHabitatCapacity).Methods(http.MethodGet)
	router.HandleFunc("/health", c.handleHealth).Methods(http.MethodGet)

	c.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.ListenAddr, cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return c, nil
}

// StartStorageEngine registers the controller with the reading
// distributor: received readings refresh the latest-reading cache.
func (c *Controller) StartStorageEngine(ctx context.Context, wg *sync.WaitGroup) chan<- types.CapacityReading {
	readingChan := make(chan types.CapacityReading, 10)
	go c.processReadings(ctx, wg, readingChan)
	return readingChan
}

func (c *Controller) processReadings(ctx context.Context, wg *sync.WaitGroup, rchan <-chan types.CapacityReading) {
	wg.Add(1)
	defer wg.Done()

	for {
		select {
		case r := <-rchan:
			c.updateLatest(r)
		case <-ctx.Done():
			return
		}
	}
}

func (c *Controller) updateLatest(r types.CapacityReading) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.latest[r.HabitatName] = r
}

// StartServer runs the HTTP server until the context is cancelled
func (c *Controller) StartServer(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.server.Shutdown(shutdownCtx); err != nil {
			log.Error("REST server shutdown error:", err)
		}
	}()

	go func() {
		log.Infof("starting REST server on %s", c.server.Addr)
		if err := c.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("REST server error:", err)
		}
	}()
}
