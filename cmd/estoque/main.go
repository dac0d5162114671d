// cmd/estoque/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/estoqueapp/estoque/internal/adapters/rest"
	redis_a "github.com/estoqueapp/estoque/internal/adapters/redis_adapter"
	"github.com/estoqueapp/estoque/internal/core/domain"
	"github.com/estoqueapp/estoque/internal/core/services"
	"github.com/estoqueapp/estoque/internal/export"
	"github.com/estoqueapp/estoque/internal/pkg/config"
	"github.com/estoqueapp/estoque/internal/pkg/logger"
)

// Build information injected at compile time
var (
	Version = "dev"
)

const usage = `estoque - inventory ledger client

Usage:
  estoque products [query]            list products, optionally filtered
  estoque movements                   show the merged movement ledger
  estoque summary                     stock totals and low-stock alerts
  estoque sale <id:qty> [id:qty ...]  process a multi-line sale
  estoque entrada <id> <qty> [note]   record incoming stock
  estoque saida <id> <qty> [note]     record outgoing stock
  estoque product <add|update|delete> [flags]
  estoque export -o <file.xlsx|file.json>
`

func main() {
	slogger := logger.SetupLogger("info", "text")

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger.Debug("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("store", cfg.Store.BaseURL),
		slog.String("version", Version))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := initializeDependencies(ctx, cfg, slogger)
	defer deps.cleanup()

	args := os.Args[1:]
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err := dispatch(ctx, deps, args[0], args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// dependencies holds all application dependencies.
type dependencies struct {
	redisClient *redis.Client
	catalog     *services.Catalog
	ledger      *services.Ledger
	sales       *services.SaleProcessor
	writer      *services.MovementWriter
	logger      *slog.Logger
}

func (d *dependencies) cleanup() {
	if d.redisClient != nil {
		d.redisClient.Close()
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, slogger *slog.Logger) *dependencies {
	store := rest.NewClient(rest.Config{
		BaseURL:           cfg.Store.BaseURL,
		Timeout:           cfg.Store.Timeout,
		RequestsPerMinute: cfg.Store.RequestsPerMinute,
	}, slogger)

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		PoolSize:     cfg.Redis.PoolSize,
	})

	cache := redis_a.NewCache(redisClient, cfg.Cache.TTL, slogger)
	if err := cache.Ping(ctx); err != nil {
		// The cache is a latency bridge, not the system of record; run
		// degraded on the remote fetch alone.
		slogger.Warn("ledger cache unreachable, continuing without it",
			slog.String("error", err.Error()))
	}

	snapshot := services.NewProductSnapshot()

	return &dependencies{
		redisClient: redisClient,
		catalog:     services.NewCatalog(store, snapshot, slogger),
		ledger:      services.NewLedger(store, cache, slogger),
		sales:       services.NewSaleProcessor(store, slogger),
		writer:      services.NewMovementWriter(store, slogger),
		logger:      slogger,
	}
}

func dispatch(ctx context.Context, deps *dependencies, command string, args []string) error {
	switch command {
	case "products":
		return runProducts(ctx, deps, args)
	case "movements":
		return runMovements(ctx, deps)
	case "summary":
		return runSummary(ctx, deps)
	case "sale":
		return runSale(ctx, deps, args)
	case "entrada", "saida":
		return runAdjustment(ctx, deps, domain.MovementType(command), args)
	case "product":
		return runProduct(ctx, deps, args)
	case "export":
		return runExport(ctx, deps, args)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func runProducts(ctx context.Context, deps *dependencies, args []string) error {
	if err := deps.catalog.Refresh(ctx); err != nil {
		return err
	}

	query := strings.Join(args, " ")
	products := deps.catalog.Snapshot().Search(query)
	if len(products) == 0 {
		fmt.Println("no products")
		return nil
	}

	for _, p := range products {
		marker := " "
		if p.LowStock() {
			marker = "!"
		}
		fmt.Printf("%s %6d  %-30s  R$ %10s  qty %5d  min %d\n",
			marker, p.ID, p.Name, p.Price.StringFixed(2), p.Quantity, p.MinQuantity)
	}
	return nil
}

func runMovements(ctx context.Context, deps *dependencies) error {
	// Render the cached ledger immediately, the way the UI bridges the
	// window before the fetch lands, then replace it with the merged view.
	cached := deps.ledger.Cached(ctx)
	if len(cached) > 0 {
		deps.logger.Debug("cached ledger available", slog.Int("entries", len(cached)))
	}

	movements, err := deps.ledger.Refresh(ctx)
	if err != nil {
		if len(cached) == 0 {
			return err
		}
		deps.logger.Warn("using cached ledger, refresh failed", slog.String("error", err.Error()))
		movements = cached
	}

	for _, m := range movements {
		fmt.Printf("%6d  %s  %-8s  product %-6d  qty %5d  %s\n",
			m.ID, m.Timestamp.Format("2006-01-02 15:04:05"), m.Type, m.ProductID, m.Quantity, m.Note)
	}
	return nil
}

func runSummary(ctx context.Context, deps *dependencies) error {
	if err := deps.catalog.Refresh(ctx); err != nil {
		return err
	}

	snap := deps.catalog.Snapshot()
	fmt.Printf("products:    %d\n", len(snap.All()))
	fmt.Printf("total items: %d\n", snap.TotalItems())
	fmt.Printf("total value: R$ %s\n", snap.TotalValue().StringFixed(2))

	if low := snap.LowStock(); len(low) > 0 {
		fmt.Println("\nlow stock:")
		for _, p := range low {
			fmt.Printf("  %s: %d of %d\n", p.Name, p.Quantity, p.MinQuantity)
		}
	}
	return nil
}

func runSale(ctx context.Context, deps *dependencies, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: estoque sale <id:qty> [id:qty ...]")
	}

	lines := make([]domain.SaleLine, 0, len(args))
	for _, arg := range args {
		idPart, qtyPart, ok := strings.Cut(arg, ":")
		if !ok {
			return fmt.Errorf("bad sale line %q, want id:qty", arg)
		}
		id, err := strconv.ParseInt(idPart, 10, 64)
		if err != nil {
			return fmt.Errorf("bad product id %q", idPart)
		}
		qty, err := strconv.Atoi(qtyPart)
		if err != nil {
			return fmt.Errorf("bad quantity %q", qtyPart)
		}
		lines = append(lines, domain.SaleLine{ProductID: id, Quantity: qty})
	}

	// Stock checks run against the snapshot as fetched here.
	if err := deps.catalog.Refresh(ctx); err != nil {
		return err
	}

	tx, err := deps.sales.Process(ctx, lines, deps.catalog.Snapshot())
	if err != nil {
		if tx != nil {
			if line, cause := tx.Failure(); cause != nil {
				fmt.Fprintf(os.Stderr,
					"sale partially failed at line %d: %d of %d movements were created and remain on the store\n",
					line+1, tx.CommittedLines(), len(lines))
			}
		}
		return err
	}

	refresh(ctx, deps)
	fmt.Printf("sale committed: %d lines, total R$ %s\n",
		tx.CommittedLines(), tx.Payload.Total.StringFixed(2))
	return nil
}

func runAdjustment(ctx context.Context, deps *dependencies, kind domain.MovementType, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: estoque %s <product-id> <quantity> [note]", kind)
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("bad product id %q", args[0])
	}
	qty, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("bad quantity %q", args[1])
	}

	movement, err := deps.writer.Record(ctx, domain.MovementRequest{
		ProductID: id,
		Type:      kind,
		Quantity:  qty,
		Note:      strings.Join(args[2:], " "),
	})
	if err != nil {
		return err
	}

	refresh(ctx, deps)
	fmt.Printf("movement %d recorded: %s %d x product %d\n",
		movement.ID, movement.Type, movement.Quantity, movement.ProductID)
	return nil
}

func runProduct(ctx context.Context, deps *dependencies, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: estoque product <add|update|delete> [flags]")
	}

	switch args[0] {
	case "add", "update":
		fs := flag.NewFlagSet("product "+args[0], flag.ContinueOnError)
		id := fs.Int64("id", 0, "product id (update only)")
		name := fs.String("name", "", "product name")
		desc := fs.String("desc", "", "description")
		price := fs.String("price", "0", "unit price")
		qty := fs.Int("qty", 0, "stock quantity")
		min := fs.Int("min", 0, "minimum quantity alert threshold")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}

		unit, err := decimal.NewFromString(*price)
		if err != nil {
			return fmt.Errorf("bad price %q", *price)
		}
		req := domain.ProductRequest{
			Name:        *name,
			Description: *desc,
			Price:       unit,
			Quantity:    *qty,
			MinQuantity: *min,
		}

		var product *domain.Product
		if args[0] == "add" {
			product, err = deps.catalog.Create(ctx, req)
		} else {
			if *id == 0 {
				return fmt.Errorf("update requires -id")
			}
			product, err = deps.catalog.Update(ctx, *id, req)
		}
		if err != nil {
			return err
		}

		refresh(ctx, deps)
		fmt.Printf("product %d: %s\n", product.ID, product.Name)
		return nil

	case "delete":
		fs := flag.NewFlagSet("product delete", flag.ContinueOnError)
		id := fs.Int64("id", 0, "product id")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if *id == 0 {
			return fmt.Errorf("delete requires -id")
		}
		if err := deps.catalog.Delete(ctx, *id); err != nil {
			return err
		}

		refresh(ctx, deps)
		fmt.Printf("product %d deleted\n", *id)
		return nil

	default:
		return fmt.Errorf("unknown product action %q", args[0])
	}
}

func runExport(ctx context.Context, deps *dependencies, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	out := fs.String("o", "estoque.xlsx", "output file (.xlsx or .json)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := deps.catalog.Refresh(ctx); err != nil {
		return err
	}
	movements, err := deps.ledger.Refresh(ctx)
	if err != nil {
		return err
	}
	products := deps.catalog.Snapshot().All()

	var data []byte
	switch {
	case strings.HasSuffix(*out, ".json"):
		data, err = export.JSON(products, movements)
	case strings.HasSuffix(*out, ".xlsx"):
		data, err = export.Excel(products, movements)
	default:
		return fmt.Errorf("unsupported export format %q", *out)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(*out, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", *out, err)
	}
	fmt.Printf("exported %d products, %d movements to %s\n", len(products), len(movements), *out)
	return nil
}

// refresh re-fetches products and the ledger after a mutation. The store
// already applied the change; a refresh failure here only delays the next
// render and is not an error for the triggering action.
func refresh(ctx context.Context, deps *dependencies) {
	if err := deps.catalog.Refresh(ctx); err != nil {
		deps.logger.Warn("product refresh failed", slog.String("error", err.Error()))
	}
	if _, err := deps.ledger.Refresh(ctx); err != nil {
		deps.logger.Warn("ledger refresh failed", slog.String("error", err.Error()))
	}
}
