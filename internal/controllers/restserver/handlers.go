package restserver

import (
	"net/http"
	"sort"

	"github.com/edwenger/larval-habitat/internal/constants"
	"github.com/edwenger/larval-habitat/internal/log"
	"github.com/edwenger/larval-habitat/internal/types"
	"github.com/gorilla/mux"
)

// handleAllCapacities returns the latest reading for every habitat,
// ordered by habitat name
func (c *Controller) handleAllCapacities(w http.ResponseWriter, req *http.Request) {
	c.mu.RLock()
	readings := make([]types.CapacityReading, 0, len(c.latest))
	for _, r := range c.latest {
		readings = append(readings, r)
	}
	c.mu.RUnlock()

	sort.Slice(readings, func(i, j int) bool {
		return readings[i].HabitatName < readings[j].HabitatName
	})

	if err := c.formatter.WriteResponse(w, req, readings); err != nil {
		log.Error("error writing capacity response:", err)
	}
}

// handleHabitatCapacity returns the latest reading for one habitat
func (c *Controller) handleHabitatCapacity(w http.ResponseWriter, req *http.Request) {
	name := mux.Vars(req)["habitat"]

	c.mu.RLock()
	reading, ok := c.latest[name]
	c.mu.RUnlock()

	if !ok {
		http.Error(w, "habitat not found", http.StatusNotFound)
		return
	}

	if err := c.formatter.WriteResponse(w, req, reading); err != nil {
		log.Error("error writing capacity response:", err)
	}
}

// handleHealth reports server liveness and version
func (c *Controller) handleHealth(w http.ResponseWriter, req *http.Request) {
	if err := c.formatter.WriteResponse(w, req, map[string]string{
		"status":  "ok",
		"version": constants.Version,
	}); err != nil {
		log.Error("error writing health response:", err)
	}
}
