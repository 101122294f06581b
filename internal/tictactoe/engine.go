package tictactoe

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
)

// NegInf and PosInf bound the search window. Utilities never leave [-1, 1].
const (
	NegInf = -2
	PosInf = 2
)

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(that *Engine) {
		that.logger = logger
	}
}

// Engine finds optimal moves with depth-first minimax and alpha-beta pruning.
// It holds no per-search state, so one Engine may be shared between goroutines.
type Engine struct {
	logger *slog.Logger
}

func NewEngine(opts ...Option) *Engine {
	engine := &Engine{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(engine)
	}

	return engine
}

// BestAction returns the optimal action for the player to move, or false if the state is terminal.
func (that *Engine) BestAction(state entity.State) (entity.Action, bool) {
	result := that.Solve(state)
	return result.Action, result.Found
}

// Solve runs a full-window search from the side to move.
func (that *Engine) Solve(state entity.State) entity.SearchResult {
	if state.IsTerminal() {
		return entity.SearchResult{Value: state.Utility()}
	}

	s := &search{}

	var result entity.SearchResult
	if state.CurrentMover() == entity.PlayerX {
		result = s.maxValue(state, NegInf, PosInf)
	} else {
		result = s.minValue(state, NegInf, PosInf)
	}

	that.logger.Debug("search finished",
		"board", state.Key(),
		"mover", state.CurrentMover(),
		"value", result.Value,
		"action", result.Action.String(),
		"nodes", s.nodes,
	)

	return result
}

// MaxValue searches for X's best reply inside the (alpha, beta) window.
func (that *Engine) MaxValue(state entity.State, alpha, beta int) (int, entity.Action, bool) {
	result := (&search{}).maxValue(state, alpha, beta)
	return result.Value, result.Action, result.Found
}

// MinValue searches for O's best reply inside the (alpha, beta) window.
func (that *Engine) MinValue(state entity.State, alpha, beta int) (int, entity.Action, bool) {
	result := (&search{}).minValue(state, alpha, beta)
	return result.Value, result.Action, result.Found
}

// search counts the nodes of a single traversal.
type search struct {
	nodes int
}

func (that *search) maxValue(state entity.State, alpha, beta int) entity.SearchResult {
	that.nodes++

	if state.IsTerminal() {
		return entity.SearchResult{Value: state.Utility()}
	}

	best := entity.SearchResult{Value: NegInf}
	for _, action := range state.LegalActions() {
		child := that.mustApply(state, action)

		if value := that.minValue(child, alpha, beta).Value; value > best.Value {
			best = entity.SearchResult{Value: value, Action: action, Found: true}
		}

		alpha = max(alpha, best.Value)
		if alpha >= beta {
			break
		}
	}

	return best
}

func (that *search) minValue(state entity.State, alpha, beta int) entity.SearchResult {
	that.nodes++

	if state.IsTerminal() {
		return entity.SearchResult{Value: state.Utility()}
	}

	best := entity.SearchResult{Value: PosInf}
	for _, action := range state.LegalActions() {
		child := that.mustApply(state, action)

		if value := that.maxValue(child, alpha, beta).Value; value < best.Value {
			best = entity.SearchResult{Value: value, Action: action, Found: true}
		}

		beta = min(beta, best.Value)
		if alpha >= beta {
			break
		}
	}

	return best
}

// mustApply panics because LegalActions only yields empty cells; a failure here is a bug in the rules.
func (that *search) mustApply(state entity.State, action entity.Action) entity.State {
	child, err := state.ApplyAction(action)
	if err != nil {
		panic(fmt.Errorf("search produced an illegal action %s on %s: %w", action, state.Key(), err))
	}
	return child
}
