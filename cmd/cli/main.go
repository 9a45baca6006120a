package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/iho/wasteledger/internal/adapter/queue"
	postgresRepo "github.com/iho/wasteledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/wasteledger/internal/adapter/repository/redis"
	"github.com/iho/wasteledger/internal/domain"
	"github.com/iho/wasteledger/internal/infrastructure/auth"
	"github.com/iho/wasteledger/internal/infrastructure/config"
	"github.com/iho/wasteledger/internal/infrastructure/postgres"
	"github.com/iho/wasteledger/internal/infrastructure/redis"
)

const dateLayout = "2006-01-02"

// cli holds flag values and connection factories so tests can swap them.
type cli struct {
	baseURL string
	token   string
	timeout time.Duration

	out io.Writer

	loadConfig  func() (*config.Config, error)
	redisClient func(ctx context.Context, cfg *config.Config) (*goredis.Client, error)
}

func main() {
	c := &cli{
		out:        os.Stdout,
		loadConfig: config.Load,
		redisClient: func(ctx context.Context, cfg *config.Config) (*goredis.Client, error) {
			return redis.NewClient(ctx, cfg.RedisURL)
		},
	}

	if err := c.rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (c *cli) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "wasteledger-cli",
		Short:         "Waste ledger CLI tool",
		Long:          `A command line interface for operating the waste balance ledger.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&c.baseURL, "url", "http://localhost:8080", "Base URL of the waste ledger API")
	rootCmd.PersistentFlags().StringVar(&c.token, "token", "", "Bearer token for the API")
	rootCmd.PersistentFlags().DurationVar(&c.timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(c.migrateCmd(), c.accreditationCmd(), c.balanceCmd(), c.commandCmd(), c.tokenCmd())
	return rootCmd
}

func (c *cli) migrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database schema migrations",
	}

	open := func() (*postgres.Migrator, error) {
		cfg, err := c.loadConfig()
		if err != nil {
			return nil, err
		}
		return postgres.NewMigrator(cfg.MigrationsPath, cfg.DatabaseURL)
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := open()
			if err != nil {
				return err
			}
			defer m.Close()

			changed, err := m.Up()
			if err != nil {
				return err
			}
			if !changed {
				fmt.Fprintln(c.out, "No pending migrations")
				return nil
			}
			fmt.Fprintln(c.out, "Migrations applied")
			return nil
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return fmt.Errorf("invalid step count %q", args[0])
				}
				steps = n
			}

			m, err := open()
			if err != nil {
				return err
			}
			defer m.Close()

			if err := m.Down(steps); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Rolled back %d migration(s)\n", steps)
			return nil
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := open()
			if err != nil {
				return err
			}
			defer m.Close()

			version, dirty, err := m.Version()
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Version: %d (dirty: %v)\n", version, dirty)
			return nil
		},
	})

	return migrateCmd
}

func (c *cli) accreditationCmd() *cobra.Command {
	var (
		a         domain.Accreditation
		regulator string
		ptype     string
		validFrom string
		validTo   string
	)

	putCmd := &cobra.Command{
		Use:   "put",
		Short: "Create or replace an accreditation",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.Regulator = domain.Regulator(regulator)
			a.ProcessingType = domain.ProcessingType(ptype)

			var err error
			if a.ValidFrom, err = parseDate(validFrom); err != nil {
				return err
			}
			if a.ValidTo, err = parseDate(validTo); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), c.timeout)
			defer cancel()

			return c.putAccreditation(ctx, a)
		},
	}

	putCmd.Flags().StringVar(&a.ID, "id", "", "Accreditation ID")
	putCmd.Flags().StringVar(&a.OrganisationID, "org", "", "Organisation ID")
	putCmd.Flags().StringVar(&a.RegistrationID, "registration", "", "Registration ID")
	putCmd.Flags().StringVar(&a.AccreditationNumber, "number", "", "Accreditation number")
	putCmd.Flags().StringVar(&a.Material, "material", "", "Material")
	putCmd.Flags().StringVar(&regulator, "regulator", string(domain.RegulatorEA), "Regulator (EA, NIEA, SEPA, NRW)")
	putCmd.Flags().StringVar(&ptype, "type", string(domain.ProcessingTypeReprocessor), "Processing type (reprocessor, exporter)")
	putCmd.Flags().StringVar(&validFrom, "valid-from", "", "First valid day, YYYY-MM-DD")
	putCmd.Flags().StringVar(&validTo, "valid-to", "", "Last valid day, YYYY-MM-DD")
	_ = putCmd.MarkFlagRequired("id")
	_ = putCmd.MarkFlagRequired("org")

	accreditationCmd := &cobra.Command{
		Use:   "accreditation",
		Short: "Accreditation reference data",
	}
	accreditationCmd.AddCommand(putCmd)
	return accreditationCmd
}

// putAccreditation writes to postgres and drops the cached copy.
func (c *cli) putAccreditation(ctx context.Context, a domain.Accreditation) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, 2, 0)
	if err != nil {
		return err
	}
	defer pool.Close()

	repo := postgresRepo.NewAccreditationRepository(pool)
	if err := repo.Upsert(ctx, a); err != nil {
		return err
	}

	client, err := c.redisClient(ctx, cfg)
	if err != nil {
		fmt.Fprintf(c.out, "Warning: cache not invalidated: %v\n", err)
	} else {
		defer client.Close()
		cached := redisRepo.NewCachedAccreditationRepository(repo, redisRepo.NewCache(client), cfg.AccreditationCacheTTL, zerolog.Nop())
		if err := cached.Invalidate(ctx, a.ID); err != nil {
			fmt.Fprintf(c.out, "Warning: cache not invalidated: %v\n", err)
		}
	}

	fmt.Fprintf(c.out, "Accreditation %s saved\n", a.ID)
	return nil
}

func (c *cli) balanceCmd() *cobra.Command {
	balanceCmd := &cobra.Command{
		Use:   "balance",
		Short: "Waste balance queries",
	}

	balanceCmd.AddCommand(&cobra.Command{
		Use:   "get <accreditation-id>",
		Short: "Show the waste balance of an accreditation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.getBalance(cmd.Context(), args[0])
		},
	})

	return balanceCmd
}

func (c *cli) getBalance(ctx context.Context, accreditationID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/balances/"+accreditationID, nil)
	if err != nil {
		return err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	client := &http.Client{Timeout: c.timeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("balance request failed (status %d): %s", resp.StatusCode, body)
	}

	var balance struct {
		AccreditationID string            `json:"accreditationId"`
		Amount          string            `json:"amount"`
		AvailableAmount string            `json:"availableAmount"`
		Version         int64             `json:"version"`
		Transactions    []json.RawMessage `json:"transactions"`
	}
	if err := json.Unmarshal(body, &balance); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	fmt.Fprintf(c.out, "Accreditation: %s\n", balance.AccreditationID)
	fmt.Fprintf(c.out, "Total:         %s\n", balance.Amount)
	fmt.Fprintf(c.out, "Available:     %s\n", balance.AvailableAmount)
	fmt.Fprintf(c.out, "Version:       %d\n", balance.Version)
	fmt.Fprintf(c.out, "Transactions:  %d\n", len(balance.Transactions))
	return nil
}

func (c *cli) commandCmd() *cobra.Command {
	commandCmd := &cobra.Command{
		Use:   "command",
		Short: "Summary log command queue",
	}

	commandCmd.AddCommand(&cobra.Command{
		Use:       "enqueue <validate|submit> <summary-log-id>",
		Short:     "Queue a summary log command",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{string(domain.CommandValidate), string(domain.CommandSubmit)},
		RunE: func(cmd *cobra.Command, args []string) error {
			name := domain.CommandName(args[0])
			if name != domain.CommandValidate && name != domain.CommandSubmit {
				return fmt.Errorf("unknown command %q", args[0])
			}

			return c.withQueue(cmd.Context(), func(ctx context.Context, q *queue.RedisQueue) error {
				user := domain.UserRef{ID: "cli"}
				id, err := q.Enqueue(ctx, domain.Command{Name: name, SummaryLogID: args[1], User: &user})
				if err != nil {
					return err
				}
				fmt.Fprintf(c.out, "Queued %s for %s as %s\n", name, args[1], id)
				return nil
			})
		},
	})

	commandCmd.AddCommand(&cobra.Command{
		Use:   "dead-letters",
		Short: "List commands that could not be processed",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withQueue(cmd.Context(), func(ctx context.Context, q *queue.RedisQueue) error {
				messages, err := q.DeadLetters(ctx)
				if err != nil {
					return err
				}
				if len(messages) == 0 {
					fmt.Fprintln(c.out, "No dead letters")
					return nil
				}
				for _, m := range messages {
					fmt.Fprintf(c.out, "%s\tattempts=%d\t%s\t%s\n", m.ID, m.Attempts, truncate(string(m.Body), 60), m.Reason)
				}
				return nil
			})
		},
	})

	return commandCmd
}

func (c *cli) withQueue(ctx context.Context, fn func(ctx context.Context, q *queue.RedisQueue) error) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	client, err := c.redisClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	return fn(ctx, queue.NewRedisQueue(client, cfg.CommandQueueName))
}

func (c *cli) tokenCmd() *cobra.Command {
	var (
		user     domain.User
		role     string
		duration time.Duration
	)

	mintCmd := &cobra.Command{
		Use:   "mint",
		Short: "Issue an API token for an actor",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return fmt.Errorf("JWT_SECRET is not set")
			}
			if duration == 0 {
				duration = cfg.JWTTokenDuration
			}

			user.Role = domain.ActorRole(role)
			token, err := auth.NewJWTManager(cfg.JWTSecret, duration).Generate(&user)
			if err != nil {
				return err
			}

			fmt.Fprintln(c.out, token)
			return nil
		},
	}

	mintCmd.Flags().StringVar(&user.ID, "user", "", "User ID")
	mintCmd.Flags().StringVar(&user.Name, "name", "", "Display name")
	mintCmd.Flags().StringVar(&user.Email, "email", "", "Email address")
	mintCmd.Flags().StringVar(&role, "role", string(domain.ActorRoleOperator), "Actor role (reprocessor_exporter, signatory, producer)")
	mintCmd.Flags().DurationVar(&duration, "ttl", 0, "Token lifetime, defaults to JWT_TOKEN_DURATION")
	_ = mintCmd.MarkFlagRequired("user")

	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "API tokens",
	}
	tokenCmd.AddCommand(mintCmd)
	return tokenCmd
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
