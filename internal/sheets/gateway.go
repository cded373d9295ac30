// Package sheets appends classified candidates to the categorized Google
// Sheets destinations, at most once per session and category.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/dminalm/filtro-candidatos/internal/interview"
	"github.com/dminalm/filtro-candidatos/internal/session"
)

// ErrPersistence means the append failed even after rebuilding the
// service and retrying. Callers log it; it never reaches the candidate.
var ErrPersistence = errors.New("failed to append candidate row")

type Gateway struct {
	mu            sync.Mutex
	svc           *sheetsapi.Service
	credsJSON     []byte
	spreadsheetID string
	eligibleTab   string
	ineligibleTab string
	docenteColumn bool
	retries       uint64
	store         session.Store
	now           func() time.Time
}

func New(ctx context.Context, credsJSON []byte, spreadsheetID, eligibleTab, ineligibleTab string, docenteColumn bool, retries uint64, store session.Store) (*Gateway, error) {
	g := &Gateway{
		credsJSON:     credsJSON,
		spreadsheetID: spreadsheetID,
		eligibleTab:   eligibleTab,
		ineligibleTab: ineligibleTab,
		docenteColumn: docenteColumn,
		retries:       retries,
		store:         store,
		now:           time.Now,
	}
	svc, err := g.buildService(ctx)
	if err != nil {
		return nil, err
	}
	g.svc = svc
	return g, nil
}

// buildService authenticates a service account against the spreadsheet
// scope and returns a fresh Sheets client.
func (g *Gateway) buildService(ctx context.Context) (*sheetsapi.Service, error) {
	conf, err := google.JWTConfigFromJSON(g.credsJSON, sheetsapi.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse google credentials: %w", err)
	}
	svc, err := sheetsapi.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return svc, nil
}

// AppendOnce appends the record's row to the category's tab unless this
// (session, category) pair was already saved. The idempotency flag flips
// only after a confirmed append, so a failed write is retried by a later
// record, never duplicated by an earlier one.
func (g *Gateway) AppendOnce(ctx context.Context, sessionID string, category interview.Category, rec interview.Record) (bool, error) {
	saved, err := g.store.IsSaved(sessionID, string(category))
	if err != nil {
		return false, err
	}
	if saved {
		return false, nil
	}

	tab := g.ineligibleTab
	if category == interview.CategoryEligible {
		tab = g.eligibleTab
	}
	row := buildRow(rec, g.docenteColumn, g.now())

	if err := g.appendWithRetry(ctx, tab, row); err != nil {
		return false, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if err := g.store.MarkSaved(sessionID, string(category)); err != nil {
		return true, err
	}
	return true, nil
}

// appendWithRetry rebuilds the service before each retry, which covers
// expired credentials as well as transient transport failures.
func (g *Gateway) appendWithRetry(ctx context.Context, tab string, row []interface{}) error {
	op := func() error {
		g.mu.Lock()
		svc := g.svc
		g.mu.Unlock()

		_, err := svc.Spreadsheets.Values.Append(g.spreadsheetID, tab+"!A:Z", &sheetsapi.ValueRange{
			Values: [][]interface{}{row},
		}).ValueInputOption("USER_ENTERED").Context(ctx).Do()
		if err == nil {
			return nil
		}
		log.Printf("⚠️ sheets append to %q failed: %v, rebuilding service", tab, err)

		if rebuilt, rerr := g.buildService(ctx); rerr == nil {
			g.mu.Lock()
			g.svc = rebuilt
			g.mu.Unlock()
		}
		return err
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), g.retries), ctx)
	return backoff.Retry(op, policy)
}

// buildRow lays the record out in the destination's positional column
// order. The schema is versioned by column count: the docente column,
// when enabled, goes right after sanitario.
func buildRow(rec interview.Record, docenteColumn bool, now time.Time) []interface{} {
	row := []interface{}{
		now.Format("02/01/2006 15:04:05"),
		rec.Edad,
		rec.Nacionalidad,
		rec.OcupacionIngresos,
		rec.Sanitario,
	}
	if docenteColumn {
		row = append(row, rec.Docente)
	}
	return append(row,
		rec.SoloPareja,
		rec.Menores,
		rec.Fuma,
		rec.Mascotas,
		rec.Tiempo,
		rec.Comentarios,
		rec.Telefono,
		rec.Email,
	)
}
