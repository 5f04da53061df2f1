package smoke

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/okian/ringside/internal/domain/model"
	"github.com/okian/ringside/internal/domain/types"
	"github.com/okian/ringside/pkg/logger"
)

// Response envelopes.
type boxerEnvelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Boxer   model.Boxer `json:"boxer"`
}

type boutEnvelope struct {
	Status  string           `json:"status"`
	Message string           `json:"message"`
	Bout    model.BoutResult `json:"bout"`
}

type leaderboardEnvelope struct {
	Status      string                   `json:"status"`
	Leaderboard []types.LeaderboardEntry `json:"leaderboard"`
}

type boutLogEnvelope struct {
	Status string             `json:"status"`
	Bouts  []model.BoutResult `json:"bouts"`
}

type statusEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Run drives the full flow: create two boxers, exercise the ring
// invariants, resolve a bout and verify counters, leaderboard and the
// bout log, then clean up.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get().Named("smoke")
	client := newHTTPClient(config.BaseURL, config.Timeout)

	log.Info(ctx, "starting smoke run",
		logger.String("baseURL", config.BaseURL),
		logger.String("timeout", config.Timeout.String()),
	)

	check := func(name string, err error) error {
		stats.ChecksRun++
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		stats.ChecksPassed++
		if config.Verbose {
			log.Info(ctx, "check passed", logger.String("check", name))
		}
		return nil
	}

	// Step 1: service is up and the store is reachable.
	if err := check("health", expectStatus(client.getJSON(ctx, "/api/health", nil))(http.StatusOK)); err != nil {
		return err
	}
	if err := check("db-check", expectStatus(client.getJSON(ctx, "/api/db-check", nil))(http.StatusOK)); err != nil {
		return err
	}

	// Step 2: register two boxers with unique names.
	suffix := uuid.NewString()[:8]
	first, err := createBoxer(ctx, client, "smoke-ali-"+suffix, 210, 74, 6.5, 28)
	if err != nil {
		return check("create first boxer", err)
	}
	_ = check("create first boxer", nil)
	second, err := createBoxer(ctx, client, "smoke-tyson-"+suffix, 218, 71, 5.9, 24)
	if err != nil {
		return check("create second boxer", err)
	}
	_ = check("create second boxer", nil)

	// Step 3: lookups agree by id and by name.
	if err := check("lookup by id", verifyLookupByID(ctx, client, first)); err != nil {
		return err
	}
	if err := check("lookup by name", verifyLookupByName(ctx, client, second)); err != nil {
		return err
	}

	// Step 4: ring invariants.
	if err := check("first enters ring", enterRing(ctx, client, first.ID, http.StatusOK)); err != nil {
		return err
	}
	if err := check("re-entry rejected", enterRing(ctx, client, first.ID, http.StatusConflict)); err != nil {
		return err
	}
	if err := check("second enters ring", enterRing(ctx, client, second.ID, http.StatusOK)); err != nil {
		return err
	}
	third, err := createBoxer(ctx, client, "smoke-foreman-"+suffix, 245, 76, 6.2, 26)
	if err != nil {
		return check("create third boxer", err)
	}
	_ = check("create third boxer", nil)
	if err := check("third entry rejected", enterRing(ctx, client, third.ID, http.StatusConflict)); err != nil {
		return err
	}
	if err := check("delete in-ring refused", deleteBoxer(ctx, client, first.ID, http.StatusConflict)); err != nil {
		return err
	}

	// Step 5: resolve a bout.
	var bout boutEnvelope
	status, err := client.postJSON(ctx, "/api/fight", nil, &bout)
	if err != nil {
		return check("fight", err)
	}
	if status != http.StatusOK {
		return check("fight", fmt.Errorf("expected 200, got %d (%s)", status, bout.Message))
	}
	if bout.Bout.Probability <= 0 || bout.Bout.Probability >= 1 {
		return check("fight", fmt.Errorf("probability %v outside (0,1)", bout.Bout.Probability))
	}
	_ = check("fight", nil)

	// Step 6: counters moved and the ring is empty.
	if err := check("counters updated", verifyCounters(ctx, client, bout.Bout)); err != nil {
		return err
	}
	if err := check("ring cleared after bout", verifyRingEmpty(ctx, client)); err != nil {
		return err
	}

	// Step 7: leaderboard and bout log reflect the bout.
	if err := check("leaderboard", verifyLeaderboard(ctx, client, bout.Bout)); err != nil {
		return err
	}
	if err := check("bout log", verifyBoutLog(ctx, client, bout.Bout)); err != nil {
		return err
	}

	// Step 8: cleanup.
	for _, id := range []int64{first.ID, second.ID, third.ID} {
		if err := check("cleanup", deleteBoxer(ctx, client, id, http.StatusOK)); err != nil {
			return err
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	log.Info(ctx, "smoke run passed",
		logger.Int("checks", stats.ChecksRun),
		logger.String("duration", stats.Duration.String()),
	)
	return nil
}

// expectStatus adapts a (status, err) pair into a single-status assertion.
func expectStatus(status int, err error) func(want int) error {
	return func(want int) error {
		if err != nil {
			return err
		}
		if status != want {
			return fmt.Errorf("expected status %d, got %d", want, status)
		}
		return nil
	}
}

func createBoxer(ctx context.Context, client *HTTPClient, name string, weight, height int, reach float64, age int) (model.Boxer, error) {
	var env boxerEnvelope
	status, err := client.postJSON(ctx, "/api/boxers", map[string]interface{}{
		"name":   name,
		"weight": weight,
		"height": height,
		"reach":  reach,
		"age":    age,
	}, &env)
	if err != nil {
		return model.Boxer{}, err
	}
	if status != http.StatusCreated {
		return model.Boxer{}, fmt.Errorf("expected 201, got %d (%s)", status, env.Message)
	}
	if env.Boxer.ID == 0 || env.Boxer.WeightClass == "" {
		return model.Boxer{}, fmt.Errorf("incomplete boxer in response: %+v", env.Boxer)
	}
	return env.Boxer, nil
}

func deleteBoxer(ctx context.Context, client *HTTPClient, id int64, want int) error {
	var env statusEnvelope
	status, err := client.deleteJSON(ctx, fmt.Sprintf("/api/boxers/%d", id), &env)
	if err != nil {
		return err
	}
	if status != want {
		return fmt.Errorf("expected %d, got %d (%s)", want, status, env.Message)
	}
	return nil
}

func enterRing(ctx context.Context, client *HTTPClient, id int64, want int) error {
	var env statusEnvelope
	status, err := client.postJSON(ctx, "/api/ring", map[string]interface{}{"id": id}, &env)
	if err != nil {
		return err
	}
	if status != want {
		return fmt.Errorf("expected %d, got %d (%s)", want, status, env.Message)
	}
	return nil
}

func verifyLookupByID(ctx context.Context, client *HTTPClient, expected model.Boxer) error {
	var env boxerEnvelope
	status, err := client.getJSON(ctx, fmt.Sprintf("/api/boxers/%d", expected.ID), &env)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("expected 200, got %d (%s)", status, env.Message)
	}
	if env.Boxer.Name != expected.Name {
		return fmt.Errorf("expected name %q, got %q", expected.Name, env.Boxer.Name)
	}
	return nil
}

func verifyLookupByName(ctx context.Context, client *HTTPClient, expected model.Boxer) error {
	var env boxerEnvelope
	status, err := client.getJSON(ctx, "/api/boxers?name="+expected.Name, &env)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("expected 200, got %d (%s)", status, env.Message)
	}
	if env.Boxer.ID != expected.ID {
		return fmt.Errorf("expected id %d, got %d", expected.ID, env.Boxer.ID)
	}
	return nil
}

func verifyCounters(ctx context.Context, client *HTTPClient, bout model.BoutResult) error {
	var winner boxerEnvelope
	if _, err := client.getJSON(ctx, fmt.Sprintf("/api/boxers/%d", bout.WinnerID), &winner); err != nil {
		return err
	}
	if winner.Boxer.Fights != 1 || winner.Boxer.Wins != 1 {
		return fmt.Errorf("winner counters fights=%d wins=%d, expected 1/1", winner.Boxer.Fights, winner.Boxer.Wins)
	}

	var loser boxerEnvelope
	if _, err := client.getJSON(ctx, fmt.Sprintf("/api/boxers/%d", bout.LoserID), &loser); err != nil {
		return err
	}
	if loser.Boxer.Fights != 1 || loser.Boxer.Wins != 0 {
		return fmt.Errorf("loser counters fights=%d wins=%d, expected 1/0", loser.Boxer.Fights, loser.Boxer.Wins)
	}
	return nil
}

func verifyRingEmpty(ctx context.Context, client *HTTPClient) error {
	var env struct {
		Status string        `json:"status"`
		Boxers []model.Boxer `json:"boxers"`
	}
	if _, err := client.getJSON(ctx, "/api/ring", &env); err != nil {
		return err
	}
	if len(env.Boxers) != 0 {
		return fmt.Errorf("ring still holds %d boxers", len(env.Boxers))
	}
	return nil
}

func verifyLeaderboard(ctx context.Context, client *HTTPClient, bout model.BoutResult) error {
	var env leaderboardEnvelope
	status, err := client.getJSON(ctx, "/api/leaderboard?sort=wins", &env)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("expected 200, got %d", status)
	}

	foundWinner := false
	for i, entry := range env.Leaderboard {
		if entry.ID == bout.WinnerID {
			foundWinner = true
		}
		if i > 0 && entry.Wins > env.Leaderboard[i-1].Wins {
			return fmt.Errorf("leaderboard not sorted by wins at position %d", i)
		}
	}
	if !foundWinner {
		return fmt.Errorf("winner %d missing from leaderboard", bout.WinnerID)
	}
	return nil
}

func verifyBoutLog(ctx context.Context, client *HTTPClient, bout model.BoutResult) error {
	// Recording is asynchronous; give the pipeline a moment.
	deadline := time.Now().Add(2 * time.Second)
	for {
		var env boutLogEnvelope
		if _, err := client.getJSON(ctx, "/api/bout-log?limit=10", &env); err != nil {
			return err
		}
		for _, b := range env.Bouts {
			if b.BoutID == bout.BoutID {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("bout %s missing from the log", bout.BoutID)
		}
		time.Sleep(100 * time.Millisecond)
	}
}
