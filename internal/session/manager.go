// Package session owns the game lifecycle: it glues the pure rule engine
// and ledger to the persistence gateway. All mutation is expressed as
// (old state, input) -> new state inside the core; the manager's only jobs
// are loading, handing the result to the store as one whole document, and
// archiving completed games.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skorat-app/skorat-core/internal/archive"
	"github.com/skorat-app/skorat-core/internal/domain"
	"github.com/skorat-app/skorat-core/internal/gamedef"
	"github.com/skorat-app/skorat-core/internal/ledger"
	"github.com/skorat-app/skorat-core/internal/migrate"
	"github.com/skorat-app/skorat-core/internal/obslog"
	"github.com/skorat-app/skorat-core/internal/scoring"
	"github.com/skorat-app/skorat-core/internal/store"
	"github.com/skorat-app/skorat-core/internal/validate"
)

var (
	ErrGameNotFound  = errors.New("game not found")
	ErrBadScoreLimit = errors.New("score limit not allowed for game type")
)

type Manager struct {
	games *store.GameStore
	defs  *gamedef.Catalog
	repo  *archive.Repository
	now   func() time.Time
}

func NewManager(games *store.GameStore, defs *gamedef.Catalog) *Manager {
	return &Manager{games: games, defs: defs, now: time.Now}
}

// AttachArchive wires a database repository for persisting completed games.
func (m *Manager) AttachArchive(r *archive.Repository) {
	if m != nil {
		m.repo = r
	}
}

// NewGameRequest carries everything a fresh match needs.
type NewGameRequest struct {
	GameType   domain.GameType
	Mode       domain.Mode
	Title      string
	Profiles   []domain.UserProfile // exactly four, in seating order
	ScoreLimit int                  // 0 means the game's default
}

// NewGame seeds players from profiles with zeroed totals, empty history,
// active status and the current schema version.
func (m *Manager) NewGame(ctx context.Context, req NewGameRequest) (*domain.GameState, error) {
	def, ok := m.defs.Lookup(req.GameType)
	if !ok {
		return nil, fmt.Errorf("%w: %q", scoring.ErrUnknownGameType, req.GameType)
	}
	if len(req.Profiles) != domain.SeatCount {
		return nil, scoring.ErrSeatCount
	}
	if !m.defs.AllowedLimit(req.GameType, req.ScoreLimit) {
		return nil, fmt.Errorf("%w: %d", ErrBadScoreLimit, req.ScoreLimit)
	}
	limit := req.ScoreLimit
	if limit == 0 {
		limit = def.DefaultLimit
	}
	mode := req.Mode
	if mode == "" {
		mode = domain.ModeSolo
		if def.IsTeam {
			mode = domain.ModeTeams
		}
	}
	title := req.Title
	if title == "" {
		title = def.Name
	}

	players := make([]domain.Player, domain.SeatCount)
	for i, p := range req.Profiles {
		players[i] = domain.Player{
			ID:        strconv.Itoa(i + 1),
			ProfileID: p.ID,
			Name:      p.Name,
		}
	}

	id := uuid.NewString()
	now := m.now().UTC().Format(time.RFC3339)
	g := &domain.GameState{
		ID:            id,
		InstanceID:    id,
		GameType:      req.GameType,
		Mode:          mode,
		Title:         title,
		Status:        domain.StatusActive,
		Players:       players,
		History:       []domain.RoundHistory{},
		ScoreLimit:    limit,
		SchemaVersion: migrate.CurrentSchemaVersion,
		LastPlayed:    now,
	}
	if err := m.games.Save(ctx, g); err != nil {
		return nil, err
	}
	obslog.L().Info("game_create",
		zap.String("game_id", g.ID),
		zap.String("game_type", string(g.GameType)),
		zap.String("mode", string(g.Mode)),
		zap.Int("score_limit", g.ScoreLimit),
	)
	return g, nil
}

// CommitRound settles and appends one round, then persists the whole
// document. A rejected input leaves both memory and storage untouched.
func (m *Manager) CommitRound(ctx context.Context, id string, in scoring.RoundInput) (*domain.GameState, error) {
	g, err := m.load(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := ledger.CommitRound(g, in, m.now())
	if err != nil {
		return nil, err
	}
	if err := m.save(ctx, next); err != nil {
		return nil, err
	}
	obslog.L().Info("round_commit",
		zap.String("game_id", next.ID),
		zap.Int("round", len(next.History)),
		zap.String("status", string(next.Status)),
	)
	m.archiveIfCompleted(ctx, next)
	return next, nil
}

// EditRound replaces one historical round and persists the fully replayed
// result.
func (m *Manager) EditRound(ctx context.Context, id string, index int, in scoring.RoundInput) (*domain.GameState, error) {
	g, err := m.load(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := ledger.EditRound(g, index, in)
	if err != nil {
		return nil, err
	}
	next.LastPlayed = m.now().UTC().Format(time.RFC3339)
	if err := m.save(ctx, next); err != nil {
		return nil, err
	}
	obslog.L().Info("round_edit",
		zap.String("game_id", next.ID),
		zap.Int("round", index+1),
		zap.String("status", string(next.Status)),
	)
	m.archiveIfCompleted(ctx, next)
	return next, nil
}

// Rematch starts a fresh game with the same seating and configuration. A
// completed game is never reopened.
func (m *Manager) Rematch(ctx context.Context, id string) (*domain.GameState, error) {
	g, err := m.load(ctx, id)
	if err != nil {
		return nil, err
	}
	profiles := make([]domain.UserProfile, len(g.Players))
	for i, p := range g.Players {
		profiles[i] = domain.UserProfile{ID: p.ProfileID, Name: p.Name}
	}
	return m.NewGame(ctx, NewGameRequest{
		GameType:   g.GameType,
		Mode:       g.Mode,
		Title:      g.Title,
		Profiles:   profiles,
		ScoreLimit: g.ScoreLimit,
	})
}

// Get returns one migrated game, or ErrGameNotFound.
func (m *Manager) Get(ctx context.Context, id string) (*domain.GameState, error) {
	return m.load(ctx, id)
}

// List returns all stored games, most recently played first.
func (m *Manager) List(ctx context.Context) ([]*domain.GameState, error) {
	return m.games.GetAll(ctx)
}

// Delete removes one game document.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if err := m.games.Remove(ctx, id); err != nil {
		return err
	}
	obslog.L().Info("game_delete", zap.String("game_id", id))
	return nil
}

// Diagnose runs the structural validator over the raw stored document,
// before migration touches it.
func (m *Manager) Diagnose(ctx context.Context, id string) ([]string, error) {
	doc, err := m.games.GetRaw(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrGameNotFound
	}
	return validate.LastRound(doc), nil
}

func (m *Manager) load(ctx context.Context, id string) (*domain.GameState, error) {
	g, err := m.games.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGameNotFound
	}
	return g, nil
}

func (m *Manager) save(ctx context.Context, g *domain.GameState) error {
	if err := m.games.Save(ctx, g); err != nil {
		obslog.L().Error("game_save_error", zap.String("game_id", g.ID), zap.Error(err))
		return err
	}
	return nil
}

// archiveIfCompleted is best effort: a failed archive write is logged, not
// surfaced, since the live document remains authoritative.
func (m *Manager) archiveIfCompleted(ctx context.Context, g *domain.GameState) {
	if g.Status != domain.StatusCompleted {
		return
	}
	var winners []string
	for _, p := range g.Players {
		if p.IsWinner {
			winners = append(winners, p.Name)
		}
	}
	obslog.L().Info("game_complete",
		zap.String("game_id", g.ID),
		zap.Strings("winners", winners),
	)
	if m.repo == nil {
		return
	}
	if err := m.repo.SaveCompleted(ctx, g); err != nil {
		obslog.L().Error("game_archive_error", zap.String("game_id", g.ID), zap.Error(err))
	}
}
