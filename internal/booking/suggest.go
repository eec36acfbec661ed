package booking

import (
	"context"
	"time"
)

// minSuggestLen is the shortest address fragment worth a lookup.
const minSuggestLen = 3

// scheduleSuggestLocked arms a debounced suggestion fetch for the current
// address text. Every call supersedes the previous one: the generation
// counter advances and any result carrying an older generation is dropped on
// arrival. Caller holds w.mu.
func (w *Wizard) scheduleSuggestLocked() {
	w.suggestGen++
	if w.suggestTimer != nil {
		w.suggestTimer.Stop()
		w.suggestTimer = nil
	}
	if w.suggester == nil || w.stage != StageTripDetails || len(w.draft.Address) < minSuggestLen {
		w.suggestions = nil
		return
	}
	gen := w.suggestGen
	city := w.draft.DestinationCity
	text := w.draft.Address
	w.suggestTimer = time.AfterFunc(w.debounce, func() {
		w.fetchSuggestions(gen, city, text)
	})
}

// cancelSuggestLocked discards pending and future-stale results and clears
// the visible list. Caller holds w.mu.
func (w *Wizard) cancelSuggestLocked() {
	w.suggestGen++
	if w.suggestTimer != nil {
		w.suggestTimer.Stop()
		w.suggestTimer = nil
	}
	w.suggestions = nil
}

func (w *Wizard) fetchSuggestions(gen uint64, city, text string) {
	ctx, cancel := context.WithTimeout(context.Background(), w.callTimeout)
	defer cancel()
	res, err := w.suggester.Suggest(ctx, city, text)
	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.suggestGen {
		return
	}
	if err != nil {
		// Suggestions are a convenience; a failed lookup just leaves the
		// field free-text.
		w.suggestions = nil
		return
	}
	w.suggestions = res
}

// Suggest runs an immediate lookup for the current address text, bypassing
// the debounce. It still participates in the generation scheme so a slower
// debounced fetch cannot overwrite its result.
func (w *Wizard) Suggest(ctx context.Context) ([]string, error) {
	w.mu.Lock()
	w.suggestGen++
	gen := w.suggestGen
	if w.suggestTimer != nil {
		w.suggestTimer.Stop()
		w.suggestTimer = nil
	}
	if w.suggester == nil || w.stage != StageTripDetails || len(w.draft.Address) < minSuggestLen {
		w.suggestions = nil
		w.mu.Unlock()
		return nil, nil
	}
	city := w.draft.DestinationCity
	text := w.draft.Address
	w.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, w.callTimeout)
	defer cancel()
	res, err := w.suggester.Suggest(ctx, city, text)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if gen == w.suggestGen {
		w.suggestions = res
	}
	return res, nil
}
