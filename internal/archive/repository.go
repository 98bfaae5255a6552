// Package archive keeps a durable row per completed game in postgres, for
// long-term match history independent of the live document store.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/skorat-app/skorat-core/internal/domain"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(databaseURL string) (*Repository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// SaveCompleted upserts one completed game. Re-archiving after a history
// edit that changed the outcome overwrites the previous row.
func (r *Repository) SaveCompleted(ctx context.Context, g *domain.GameState) error {
	if r == nil || r.db == nil || g == nil {
		return nil
	}
	if g.Status != domain.StatusCompleted {
		return nil
	}

	var winners []string
	for _, p := range g.Players {
		if p.IsWinner {
			winners = append(winners, p.Name)
		}
	}

	q := `INSERT INTO completed_games (
	    game_id, game_type, mode, title, score_limit,
	    rounds_played, winners, completed_at
	  ) VALUES (
	    $1,$2,$3,$4,$5,$6,$7,$8
	  ) ON CONFLICT (game_id) DO UPDATE SET
	    game_type=EXCLUDED.game_type,
	    mode=EXCLUDED.mode,
	    title=EXCLUDED.title,
	    score_limit=EXCLUDED.score_limit,
	    rounds_played=EXCLUDED.rounds_played,
	    winners=EXCLUDED.winners,
	    completed_at=EXCLUDED.completed_at`

	_, err := r.db.ExecContext(ctx, q,
		g.ID, string(g.GameType), string(g.Mode), g.Title, g.ScoreLimit,
		len(g.History), strings.Join(winners, " & "), g.LastPlayed,
	)
	return err
}
