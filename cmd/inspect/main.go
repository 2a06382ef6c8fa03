// inspect walks every slot of a MySQL-backed ledger, classifies the records
// it finds and reports a census. Reads run under a worker pool throttled
// against the production database.
package main

import (
	"context"
	"database/sql"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"reviewledger/internal/adapters/observability"
	redisad "reviewledger/internal/adapters/redis"
	"reviewledger/internal/domain"
	"reviewledger/internal/record"
	"reviewledger/internal/shared"
	mysqlledger "reviewledger/internal/storage/mysql"
	"reviewledger/internal/token"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// when PROGRAM_ID is set, slots owned by anything other than that
	// program or the token collaborator are reported as foreign instead of
	// being decoded
	var programID domain.Address
	if cfg.ProgramID != "" {
		var err error
		programID, err = domain.AddressFromString(cfg.ProgramID)
		if err != nil {
			log.Fatal().Err(err).Msg("PROGRAM_ID is not a valid address")
		}
	}

	log.Info().
		Int("workers", cfg.ScanWorkers).
		Int("rps", cfg.ScanRPS).
		Str("program", cfg.ProgramID).
		Msg("inspect starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	ledger := mysqlledger.New(db)

	// repeated scans are read-heavy; front the gateway with the slot cache
	// when redis is configured
	var reader domain.Ledger = ledger
	if cfg.RedisAddr != "" {
		reader = redisad.New(ledger, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.CacheTTL)
	}

	addrs, err := ledger.ListAddresses(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("list addresses failed")
	}
	log.Info().Int("slots", len(addrs)).Msg("scanning ledger")

	var (
		mu     sync.Mutex
		census = map[string]int{}
		broken int
	)
	bump := func(k string) {
		mu.Lock()
		census[k]++
		mu.Unlock()
	}

	sem := semaphore.NewWeighted(int64(cfg.ScanWorkers))
	rl := rate.NewLimiter(rate.Limit(cfg.ScanRPS), cfg.ScanRPS)
	var wg sync.WaitGroup

	for _, addr := range addrs {
		if err := rl.Wait(ctx); err != nil {
			log.Fatal().Err(err).Msg("rate limiter wait failed")
		}
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(addr domain.Address) {
			defer wg.Done()
			defer sem.Release(1)

			slot, err := reader.Read(ctx, addr)
			if err != nil {
				log.Warn().Str("addr", addr.String()).Err(err).Msg("read failed")
				mu.Lock()
				broken++
				mu.Unlock()
				return
			}

			if !programID.IsZero() && slot.Owner != programID && slot.Owner != domain.TokenProgramID {
				bump("foreign")
				log.Debug().Str("addr", addr.String()).
					Str("owner", slot.Owner.String()).
					Msg("foreign-owned slot")
				return
			}

			if slot.Owner == domain.TokenProgramID {
				if m, err := token.ParseMint(slot.Data); err == nil {
					bump("mint")
					log.Info().Str("addr", addr.String()).
						Uint64("supply", m.Supply).
						Uint8("decimals", m.Decimals).
						Bool("initialized", m.Initialized).
						Msg("mint slot")
					return
				}
			}

			disc, initialized, err := record.Classify(slot.Data)
			if err != nil || disc == "" {
				log.Warn().Str("addr", addr.String()).Err(err).Msg("unclassifiable slot")
				mu.Lock()
				broken++
				mu.Unlock()
				return
			}
			if !initialized {
				bump(disc + ":uninitialized")
				return
			}
			bump(disc)
		}(addr)
	}

	wg.Wait()

	ev := log.Info().Int("unclassifiable", broken)
	for k, n := range census {
		ev = ev.Int(k, n)
	}
	ev.Msg("scan completed")
}
