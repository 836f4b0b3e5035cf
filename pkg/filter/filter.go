// Package filter selects collection items with expr-lang expressions.
//
// Expressions see one item at a time:
//
//	own and rating >= 8
//	wishlist and wishlist_priority <= 2
//	supports(4) and playing_time <= 90
//	contains(name, "agricola") or rank in 1..100
package filter

import (
	"fmt"
	"strings"

	"github.com/Sternrassler/bgg-client/pkg/model"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Env is the evaluation environment for one collection item.
type Env struct {
	ID          int    `expr:"id"`
	Name        string `expr:"name"`
	Subtype     string `expr:"subtype"`
	Year        int    `expr:"year"`
	Comment     string `expr:"comment"`
	Plays       int    `expr:"plays"`
	MinPlayers  int    `expr:"min_players"`
	MaxPlayers  int    `expr:"max_players"`
	PlayingTime int    `expr:"playing_time"`

	// Rated is false when the owner has not rated the item; Rating is then 0.
	Rated   bool    `expr:"rated"`
	Rating  float64 `expr:"rating"`
	Average float64 `expr:"average"`
	Rank    int     `expr:"rank"` // 0 when unranked

	Own              bool `expr:"own"`
	PrevOwned        bool `expr:"prev_owned"`
	ForTrade         bool `expr:"for_trade"`
	Want             bool `expr:"want"`
	WantToPlay       bool `expr:"want_to_play"`
	WantToBuy        bool `expr:"want_to_buy"`
	Wishlist         bool `expr:"wishlist"`
	WishlistPriority int  `expr:"wishlist_priority"`
	Preordered       bool `expr:"preordered"`

	Contains func(s, substr string) bool `expr:"contains"`
	Lower    func(s string) string       `expr:"lower"`
	Supports func(players int) bool      `expr:"supports"`
}

// CompilationError indicates a filter expression could not be compiled.
type CompilationError struct {
	Expression string
	Err        error
}

func (e *CompilationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("compilation error in '%s': empty expression", e.Expression)
	}
	return fmt.Sprintf("compilation error in '%s': %v", e.Expression, e.Err)
}

func (e *CompilationError) Unwrap() error {
	return e.Err
}

// Filter is a compiled collection filter. It is safe for concurrent use.
type Filter struct {
	expression string
	program    *vm.Program
}

// Compile type-checks expression against Env. The expression must yield a bool.
func Compile(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{Expression: expression}
	}

	program, err := expr.Compile(expression, expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return nil, &CompilationError{Expression: expression, Err: err}
	}

	return &Filter{expression: expression, program: program}, nil
}

// String returns the source expression.
func (f *Filter) String() string {
	return f.expression
}

// Match reports whether item satisfies the filter.
func (f *Filter) Match(item model.CollectionItem) (bool, error) {
	out, err := expr.Run(f.program, newEnv(item))
	if err != nil {
		return false, fmt.Errorf("evaluate %q on %q: %w", f.expression, item.Name, err)
	}
	return out.(bool), nil
}

// Apply returns the items that satisfy the filter, in their original order.
func (f *Filter) Apply(items []model.CollectionItem) ([]model.CollectionItem, error) {
	out := make([]model.CollectionItem, 0, len(items))
	for _, item := range items {
		ok, err := f.Match(item)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func newEnv(item model.CollectionItem) Env {
	env := Env{
		ID:               item.ID,
		Name:             item.Name,
		Subtype:          item.Subtype,
		Year:             item.Year,
		Comment:          item.Comment,
		Plays:            item.NumPlays,
		MinPlayers:       item.MinPlayers,
		MaxPlayers:       item.MaxPlayers,
		PlayingTime:      item.PlayingTime,
		Own:              item.Status.Own,
		PrevOwned:        item.Status.PrevOwned,
		ForTrade:         item.Status.ForTrade,
		Want:             item.Status.Want,
		WantToPlay:       item.Status.WantToPlay,
		WantToBuy:        item.Status.WantToBuy,
		Wishlist:         item.Status.Wishlist,
		WishlistPriority: item.Status.WishlistPriority,
		Preordered:       item.Status.Preordered,

		Contains: func(s, substr string) bool {
			return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
		},
		Lower: strings.ToLower,
		Supports: func(players int) bool {
			return item.MinPlayers <= players && players <= item.MaxPlayers
		},
	}

	if item.Rating != nil {
		env.Rated = true
		env.Rating = *item.Rating
	}
	if item.Stats != nil {
		env.Average = item.Stats.Average
		if rank := item.Stats.BoardGameRank(); rank != nil {
			env.Rank = *rank
		}
	}
	return env
}
