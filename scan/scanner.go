// Package scan discovers compilation units on disk and traverses them into a
// doc.Model, one unit per goroutine.
package scan

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"slices"
	"sort"
	"strconv"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/gdoc/doc"
	"github.com/dhamidi/gdoc/groovy"
	"github.com/dhamidi/gdoc/groovy/ast"
	"github.com/dhamidi/gdoc/java"
	"github.com/dhamidi/gdoc/java/parser"
)

const DefaultCacheSize = 1024

var ErrClosed = errors.New("scanner closed")

type Option func(*Scanner)

// WithWorkers bounds the number of units traversed at once. Values below
// one mean runtime.NumCPU.
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		s.workers = n
	}
}

// WithCacheSize sets how many traversed units are remembered. Zero disables
// the cache.
func WithCacheSize(n int) Option {
	return func(s *Scanner) {
		s.cacheSize = n
	}
}

func WithLogger(log commonlog.Logger) Option {
	return func(s *Scanner) {
		s.log = log
	}
}

type Scanner struct {
	workers   int
	cacheSize int
	cache     *lru.Cache[string, *doc.Model]
	log       commonlog.Logger

	mu     sync.RWMutex
	scans  map[string]*Result
	nextID int
	start  sync.Once

	// sendMu guards requests and closed. mu may be taken while holding it,
	// never the other way round.
	sendMu   sync.Mutex
	requests chan Request
	closed   bool
}

func New(opts ...Option) *Scanner {
	s := &Scanner{
		cacheSize: DefaultCacheSize,
		log:       commonlog.GetLogger("gdoc.scan"),
		scans:     make(map[string]*Result),
		requests:  make(chan Request, 100),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.workers < 1 {
		s.workers = runtime.NumCPU()
	}
	if s.cacheSize > 0 {
		cache, err := lru.New[string, *doc.Model](s.cacheSize)
		if err != nil {
			s.log.Warningf("unit cache disabled: %s", err)
		}
		s.cache = cache
	}
	return s
}

// Parse traverses the content of a single unit into a model of its own.
// Results for content seen before are served from the cache. A returned
// *java.SyntaxError comes with a usable, partial model.
func (s *Scanner) Parse(u Unit, data []byte) (*doc.Model, error) {
	key := cacheKey(u, data)
	if s.cache != nil {
		if model, ok := s.cache.Get(key); ok {
			s.log.Debugf("cache hit for %s", u)
			return model, nil
		}
	}

	model := doc.NewModel()
	var err error
	switch u.Dialect {
	case DialectJava:
		err = java.FromSource(data, u.PackagePath, model, parser.WithFile(u.String()))
	case DialectGroovy:
		var module *ast.ModuleNode
		module, err = ast.DecodeModule(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", u, err)
		}
		groovy.NewVisitor(u.PackagePath, model).VisitModule(module)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, u)
	}

	if err == nil && s.cache != nil {
		s.cache.Add(key, model)
	}
	return model, err
}

func cacheKey(u Unit, data []byte) string {
	sum := sha256.Sum256(data)
	return u.String() + "\x00" + u.PackagePath + "\x00" + hex.EncodeToString(sum[:])
}

// Run traverses units and merges their models in the order given, so a
// later unit replaces an earlier one declaring the same path. Failures of
// individual units are returned alongside the model and do not stop the
// run; only cancellation of ctx does.
func (s *Scanner) Run(ctx context.Context, units []Unit) (*doc.Model, []error) {
	return s.run(ctx, units, nil)
}

func (s *Scanner) run(ctx context.Context, units []Unit, progress func()) (*doc.Model, []error) {
	started := time.Now()
	models := make([]*doc.Model, len(units))
	unitErrs := make([]error, len(units))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, u := range units {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			models[i], unitErrs[i] = s.scanUnit(u)
			if progress != nil {
				progress()
			}
			return nil
		})
	}
	runErr := g.Wait()

	merged := doc.NewModel()
	var errs []error
	for i := range units {
		if unitErrs[i] != nil {
			s.log.Warningf("%s", unitErrs[i])
			errs = append(errs, unitErrs[i])
		}
		if models[i] != nil {
			merged.Merge(models[i])
		}
	}
	if runErr != nil {
		errs = append(errs, runErr)
	}

	s.log.Infof("scanned %d units into %d classes in %s", len(units), merged.Len(), time.Since(started).Round(time.Millisecond))
	return merged, errs
}

func (s *Scanner) scanUnit(u Unit) (*doc.Model, error) {
	data, err := readUnit(u)
	if err != nil {
		return nil, err
	}
	return s.Parse(u, data)
}

func readUnit(u Unit) ([]byte, error) {
	if u.Entry == "" {
		data, err := os.ReadFile(u.Path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", u, err)
		}
		return data, nil
	}

	r, err := zip.OpenReader(u.Path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", u.Path, err)
	}
	defer r.Close()

	f, err := r.Open(u.Entry)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", u, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", u, err)
	}
	return data, nil
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Request asks for a background scan of Root.
type Request struct {
	ID        string
	Root      string
	Options   DiscoverOptions
	CreatedAt time.Time
}

type Result struct {
	ID        string
	Status    Status
	Request   Request
	Model     *doc.Model
	Error     string
	Errors    []string
	StartedAt time.Time
	EndedAt   time.Time
	Progress  int
	Total     int
}

// snapshot copies r so it can be read without holding the scanner lock.
// The model is shared; it is safe for concurrent use.
func (r *Result) snapshot() *Result {
	cp := *r
	cp.Errors = slices.Clone(r.Errors)
	return &cp
}

func (r *Result) ProgressPercent() int {
	if r.Total == 0 {
		return 0
	}
	return (r.Progress * 100) / r.Total
}

// Submit queues a background scan and returns its id. It fails with
// ErrClosed once Close has been called.
func (s *Scanner) Submit(req Request) (string, error) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if s.closed {
		return "", ErrClosed
	}
	s.start.Do(func() {
		go s.serve()
	})

	s.mu.Lock()
	s.nextID++
	req.ID = strconv.Itoa(s.nextID)
	req.CreatedAt = time.Now()
	s.scans[req.ID] = &Result{
		ID:      req.ID,
		Status:  StatusPending,
		Request: req,
	}
	s.mu.Unlock()

	s.requests <- req
	return req.ID, nil
}

// Close stops the background worker once queued scans are done.
func (s *Scanner) Close() {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.requests)
	}
}

func (s *Scanner) serve() {
	for req := range s.requests {
		s.process(req)
	}
}

func (s *Scanner) process(req Request) {
	s.mu.Lock()
	result := s.scans[req.ID]
	result.Status = StatusInProgress
	result.StartedAt = time.Now()
	s.mu.Unlock()

	var (
		model *doc.Model
		errs  []error
	)
	units, err := Discover(req.Root, req.Options)
	if err != nil {
		errs = append(errs, err)
	} else {
		s.mu.Lock()
		result.Total = len(units)
		s.mu.Unlock()

		model, errs = s.run(context.Background(), units, func() {
			s.mu.Lock()
			result.Progress++
			s.mu.Unlock()
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	result.EndedAt = time.Now()
	result.Model = model
	for _, e := range errs {
		result.Errors = append(result.Errors, e.Error())
	}
	if model == nil || (len(errs) > 0 && model.Len() == 0) {
		result.Status = StatusFailed
		if len(errs) > 0 {
			result.Error = errs[0].Error()
		}
	} else {
		result.Status = StatusCompleted
	}
}

// Get returns a snapshot of the scan with the given id.
func (s *Scanner) Get(id string) (*Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.scans[id]
	if !ok {
		return nil, false
	}
	return result.snapshot(), true
}

// List returns snapshots of all submitted scans in submission order.
func (s *Scanner) List() []*Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	results := make([]*Result, 0, len(s.scans))
	for _, r := range s.scans {
		results = append(results, r.snapshot())
	}
	sort.Slice(results, func(i, j int) bool {
		a, _ := strconv.Atoi(results[i].ID)
		b, _ := strconv.Atoi(results[j].ID)
		return a < b
	})
	return results
}

// Model merges the models of all completed scans, later scans winning.
func (s *Scanner) Model() *doc.Model {
	merged := doc.NewModel()
	for _, r := range s.List() {
		if r.Status == StatusCompleted && r.Model != nil {
			merged.Merge(r.Model)
		}
	}
	return merged
}
