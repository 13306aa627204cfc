// README: Bench cases: store connectivity, booking lifecycle over HTTP, shared-fleet contention, throughput.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	statusPass = "PASS"
	statusFail = "FAIL"
	statusSkip = "SKIP"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client
}

type Result struct {
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
			defer db.Close()
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
		defer r.redis.Close()
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))
	for _, tc := range tests {
		res := tc.Run(ctx, r)
		results = append(results, res)
		fmt.Printf("%-5s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}
	return results
}

func fail(format string, args ...any) Result {
	return Result{Status: statusFail, Note: fmt.Sprintf(format, args...)}
}

func (r *Runner) cases() []TestCase {
	return []TestCase{
		{
			Name: "Env: Redis connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: statusSkip, Note: "redis not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.redis.Ping(ctx).Err(); err != nil {
					return fail("%v", err)
				}
				return Result{Status: statusPass}
			},
		},
		{
			Name: "Env: Postgres kv_records table",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: statusSkip, Note: "db not configured"}
				}
				var exists bool
				err := r.db.QueryRow(ctx, `SELECT to_regclass('public.kv_records') IS NOT NULL`).Scan(&exists)
				if err != nil {
					return fail("%v", err)
				}
				if !exists {
					return fail("kv_records missing")
				}
				return Result{Status: statusPass}
			},
		},
		{
			Name: "HTTP: health",
			Run: func(ctx context.Context, r *Runner) Result {
				start := time.Now()
				status, _, err := r.call(ctx, http.MethodGet, "/health", nil)
				if err != nil {
					return fail("%v", err)
				}
				if status != http.StatusOK {
					return fail("status=%d", status)
				}
				return Result{Status: statusPass, Latency: time.Since(start)}
			},
		},
		{Name: "HTTP: booking lifecycle", Run: lifecycle},
		{Name: "Concurrency: confirms never overbook a class", Run: contention},
		{Name: "Perf: fare preview throughput", Run: faresLoad},
	}
}

// call sends a JSON request and decodes a JSON object response, if any.
func (r *Runner) call(ctx context.Context, method, path string, body any) (int, map[string]any, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, r.cfg.BaseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	var out map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		_ = json.Unmarshal(raw, &out)
	}
	return resp.StatusCode, out, nil
}

func (r *Runner) newUser(ctx context.Context) (string, error) {
	status, body, err := r.call(ctx, http.MethodPost, "/api/users", nil)
	if err != nil {
		return "", err
	}
	uid, _ := body["uid"].(string)
	if status != http.StatusCreated || uid == "" {
		return "", fmt.Errorf("new user: status=%d", status)
	}
	return uid, nil
}

type step struct {
	method string
	path   string
	body   any
	want   int
}

func (r *Runner) steps(ctx context.Context, uid string, steps []step) error {
	for _, s := range steps {
		status, _, err := r.call(ctx, s.method, "/api/users/"+uid+s.path, s.body)
		if err != nil {
			return fmt.Errorf("%s %s: %w", s.method, s.path, err)
		}
		if status != s.want {
			return fmt.Errorf("%s %s: status=%d want %d", s.method, s.path, status, s.want)
		}
	}
	return nil
}

func draftSteps(class string) []step {
	return []step{
		{http.MethodPut, "/draft/endpoints/start", map[string]any{"name": "Sunway Pyramid", "address": "Bandar Sunway", "lng": 101.6076, "lat": 3.0728}, http.StatusOK},
		{http.MethodPut, "/draft/endpoints/end", map[string]any{"name": "Sunway Medical Centre", "address": "Jalan Lagoon Selatan", "lng": 101.6086, "lat": 3.0661}, http.StatusOK},
		{http.MethodPut, "/draft/taxi", map[string]any{"class": class}, http.StatusOK},
	}
}

func lifecycle(ctx context.Context, r *Runner) Result {
	start := time.Now()
	uid, err := r.newUser(ctx)
	if err != nil {
		return fail("%v", err)
	}
	steps := append(draftSteps("Car"),
		step{http.MethodGet, "/draft/fares", nil, http.StatusOK},
		step{http.MethodPost, "/bookings", nil, http.StatusCreated},
		step{http.MethodGet, "/bookings?page=1", nil, http.StatusOK},
		step{http.MethodGet, "/bookings/0", nil, http.StatusOK},
		step{http.MethodGet, "/bookings/last", nil, http.StatusOK},
		step{http.MethodGet, "/bookings/0/alternatives", nil, http.StatusOK},
		step{http.MethodDelete, "/bookings/0", nil, http.StatusOK},
		step{http.MethodGet, "/notices/deletion", nil, http.StatusOK},
	)
	if err := r.steps(ctx, uid, steps); err != nil {
		return fail("%v", err)
	}
	return Result{Status: statusPass, Latency: time.Since(start)}
}

// contention lets Concurrency users confirm a Minibus at once, checks that no
// more bookings succeed than units were free, then deletes them again.
func contention(ctx context.Context, r *Runner) Result {
	free, err := r.freeUnits(ctx, "Minibus")
	if err != nil {
		return fail("%v", err)
	}

	users := make([]string, r.cfg.Concurrency)
	for i := range users {
		if users[i], err = r.newUser(ctx); err != nil {
			return fail("%v", err)
		}
		if err := r.steps(ctx, users[i], draftSteps("Minibus")); err != nil {
			return fail("%v", err)
		}
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		confirmed []string
	)
	for _, uid := range users {
		wg.Add(1)
		go func(uid string) {
			defer wg.Done()
			status, _, err := r.call(ctx, http.MethodPost, "/api/users/"+uid+"/bookings", nil)
			if err == nil && status == http.StatusCreated {
				mu.Lock()
				confirmed = append(confirmed, uid)
				mu.Unlock()
			}
		}(uid)
	}
	wg.Wait()

	for _, uid := range confirmed {
		_ = r.steps(ctx, uid, []step{{http.MethodDelete, "/bookings/0", nil, http.StatusOK}})
	}

	want := min(free, len(users))
	if len(confirmed) != want {
		return fail("confirmed=%d free=%d users=%d", len(confirmed), free, len(users))
	}
	return Result{Status: statusPass, Note: fmt.Sprintf("confirmed=%d free=%d", len(confirmed), free)}
}

func (r *Runner) freeUnits(ctx context.Context, class string) (int, error) {
	status, body, err := r.call(ctx, http.MethodGet, "/api/taxis", nil)
	if err != nil {
		return 0, err
	}
	if status != http.StatusOK {
		return 0, fmt.Errorf("taxis: status=%d", status)
	}
	taxis, _ := body["taxis"].([]any)
	n := 0
	for _, t := range taxis {
		unit, _ := t.(map[string]any)
		if unit["class"] == class && unit["available"] == true {
			n++
		}
	}
	return n, nil
}

func faresLoad(ctx context.Context, r *Runner) Result {
	uid, err := r.newUser(ctx)
	if err != nil {
		return fail("%v", err)
	}
	if err := r.steps(ctx, uid, draftSteps("Car")); err != nil {
		return fail("%v", err)
	}

	end := time.Now().Add(r.cfg.Duration)
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		count    int
		errCount int
	)
	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				status, _, err := r.call(ctx, http.MethodGet, "/api/users/"+uid+"/draft/fares", nil)
				mu.Lock()
				if err != nil || status != http.StatusOK {
					errCount++
				} else {
					count++
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if count == 0 {
		return fail("no requests completed")
	}
	rps := float64(count) / r.cfg.Duration.Seconds()
	return Result{Status: statusPass, Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount)}
}
