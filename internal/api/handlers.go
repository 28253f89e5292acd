// Package api exposes the construction service over HTTP: submit a
// problem, launch an NRPA construction job against it, poll the job, and
// fetch the finished board. A Handlers struct closes over its
// dependencies and uses ShouldBindJSON request parsing with a
// sentinel-condition-to-status-code response pattern throughout.
package api

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/crossplay/backend/internal/cache"
	"github.com/crossplay/backend/internal/realtime"
	"github.com/crossplay/backend/internal/store"
	"github.com/crossplay/backend/pkg/output"
	"github.com/crossplay/backend/pkg/xword"
)

// Defaults holds the NRPA parameters applied to a construction job when
// the caller's request doesn't override them.
type Defaults struct {
	Level      int
	Iters      int
	Alpha      float64
	MaxStalled int
}

type Handlers struct {
	store    *store.Store
	cache    *cache.Cache
	hub      *realtime.Hub
	defaults Defaults
}

func NewHandlers(st *store.Store, c *cache.Cache, defaults Defaults) *Handlers {
	return &Handlers{store: st, cache: c, defaults: defaults}
}

// SetHub wires the progress broadcast hub in after construction, a
// two-step "new handlers, then SetHub" wiring done in cmd/server/main.go.
func (h *Handlers) SetHub(hub *realtime.Hub) {
	h.hub = hub
}

// CreateProblemRequest carries a problem in xword.ParseProblem's on-disk
// text form: "HxW" header, board rows, "-----" separator, dictionary.
type CreateProblemRequest struct {
	Definition string `json:"definition" binding:"required"`
}

func (h *Handlers) CreateProblem(c *gin.Context) {
	var req CreateProblemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	problem, err := xword.ParseProblem([]byte(req.Definition))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := uuid.New().String()
	if err := h.store.SaveProblem(id, problem); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save problem"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":     id,
		"height": problem.Height,
		"width":  problem.Width,
	})
}

// ConstructRequest overrides the service's NRPA defaults for one job.
type ConstructRequest struct {
	Level int     `json:"level"`
	Iters int     `json:"iters"`
	Alpha float64 `json:"alpha"`
	Seed  int64   `json:"seed"`
}

func (h *Handlers) LaunchConstruction(c *gin.Context) {
	problemID := c.Param("id")

	problem, err := h.store.GetProblem(problemID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	if problem == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "problem not found"})
		return
	}

	var req ConstructRequest
	c.ShouldBindJSON(&req) // optional body; zero value means "use defaults"

	level, iters, alpha := h.defaults.Level, h.defaults.Iters, h.defaults.Alpha
	if req.Level > 0 {
		level = req.Level
	}
	if req.Iters > 0 {
		iters = req.Iters
	}
	if req.Alpha > 0 {
		alpha = req.Alpha
	}
	maxStalled := h.defaults.MaxStalled

	jobID := uuid.New().String()
	if err := h.store.CreateConstruction(jobID, problemID, level, iters, alpha); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create job"})
		return
	}

	rng := xword.NewDefaultRng()
	if req.Seed != 0 {
		rng = xword.NewDeterministicRng(req.Seed)
	}

	go h.runConstruction(jobID, problem, xword.ConstructorOptions{
		Level: level, Iters: iters, Alpha: float32(alpha), MaxStalledIters: maxStalled,
	}, rng)

	c.JSON(http.StatusAccepted, gin.H{"jobId": jobID})
}

func (h *Handlers) runConstruction(jobID string, problem *xword.Problem, opts xword.ConstructorOptions, rng xword.AbstractRng) {
	if err := h.store.MarkRunning(jobID); err != nil {
		return
	}
	if h.hub != nil {
		h.hub.BroadcastToJob(jobID, realtime.MsgProgress, realtime.ProgressPayload{Level: opts.Level})
	}

	places := h.enumeratePlacements(problem)
	constructor := xword.NewConstructorWithOptions(problem, places, rng, opts)
	placements := constructor.Construct()

	board := &xword.Board{Height: problem.Height, Width: problem.Width, Placements: placements}
	eff := boardEfficiency(board)

	meta := output.Metadata{ID: jobID, Title: "Constructed board"}
	boardJSON, err := output.ToJSON(board, meta)
	if err != nil {
		h.store.FailConstruction(jobID, err)
		if h.hub != nil {
			h.hub.BroadcastToJob(jobID, realtime.MsgFailed, realtime.FailedPayload{Error: err.Error()})
		}
		return
	}

	if err := h.store.CompleteConstruction(jobID, boardJSON, eff); err != nil {
		return
	}
	if h.hub != nil {
		h.hub.BroadcastToJob(jobID, realtime.MsgDone, realtime.DonePayload{
			Efficiency: int32(eff),
			Placements: len(placements),
		})
	}
}

// enumeratePlacements returns problem's candidate placements, serving them
// from the cache when a prior job already enumerated the same problem —
// enumeration is pure given a problem's board and dictionary, so the
// result is safe to reuse across jobs.
func (h *Handlers) enumeratePlacements(problem *xword.Problem) []*xword.Placement {
	hash := problemHash(problem)
	ctx := context.Background()

	if records, hit, err := h.cache.GetPlacements(ctx, hash); err == nil && hit {
		return cache.PlacementsFromRecords(records, problem)
	}

	places := xword.GeneratePlacements(problem)
	h.cache.SetPlacements(ctx, hash, cache.RecordsFromPlacements(places))
	return places
}

func problemHash(problem *xword.Problem) string {
	sum := sha256.Sum256([]byte(store.Serialize(problem)))
	return hex.EncodeToString(sum[:])
}

func boardEfficiency(board *xword.Board) xword.Eff {
	grid := xword.NewFixedGrid[*xword.Placement](board.Height, board.Width, xword.NewDefaultRng())
	for _, p := range board.Placements {
		grid.Place(p)
	}
	return grid.Efficiency()
}

func (h *Handlers) GetJob(c *gin.Context) {
	jobID := c.Param("id")

	job, err := h.store.GetConstruction(jobID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}

	resp := gin.H{
		"id":        job.ID,
		"problemId": job.ProblemID,
		"status":    job.Status,
		"level":     job.Level,
		"iters":     job.Iters,
		"alpha":     job.Alpha,
	}
	if job.BestEfficiency != nil {
		resp["bestEfficiency"] = *job.BestEfficiency
	}
	if job.Error != nil {
		resp["error"] = *job.Error
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handlers) GetJobBoard(c *gin.Context) {
	jobID := c.Param("id")
	format := c.Param("format")

	job, err := h.store.GetConstruction(jobID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	if job.Status != store.StatusDone || job.BoardJSON == nil {
		c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("job is %s, not done", job.Status)})
		return
	}

	solution, meta, err := output.FromJSON([]byte(*job.BoardJSON))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "corrupt stored board"})
		return
	}
	board := output.BoardFromSolution(solution)

	var data []byte
	var contentType string
	switch format {
	case "json":
		data, err = output.ToJSON(board, meta)
		contentType = "application/json"
	case "ipuz":
		data, err = output.ToIPuz(board, meta)
		contentType = "application/json"
	case "puz":
		data, err = output.FormatPuz(board, meta)
		contentType = "application/octet-stream"
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown format: " + format})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, contentType, data)
}

// ServeProgress upgrades the request to a WebSocket subscribed to jobID's
// construction progress.
func (h *Handlers) ServeProgress(c *gin.Context) {
	jobID := c.Param("id")
	if h.hub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "progress hub not available"})
		return
	}
	if err := realtime.ServeWs(h.hub, c.Writer, c.Request, jobID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
