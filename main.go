package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"

	"petnotes/config"
	"petnotes/dto"
	"petnotes/model"
	"petnotes/repository"
	"petnotes/services"
	"petnotes/usecase"
	"petnotes/utils"
)

func init() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil && os.Getenv("GO_ENV") != "test" {
		log.Printf("No .env file found, using process environment")
	}

	// Check required environment variables
	requiredEnvVars := []string{
		"MONGO_URI",
		"MONGO_DB",
	}
	for _, envVar := range requiredEnvVars {
		if os.Getenv(envVar) == "" && os.Getenv("GO_ENV") != "test" {
			log.Fatalf("Required environment variable %s is not set", envVar)
		}
	}

	utils.InitValidator()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "petnotes-admin",
	Short: "Operations CLI for the petnotes ownership graph",
	Long: `petnotes-admin runs maintenance operations against a petnotes database:
ownership graph verification and repair, cascading purges, the overdue
task sweep, and a stats snapshot.`,
	SilenceUsage: true,
}

var repairFlag bool

func init() {
	verifyCmd.Flags().BoolVar(&repairFlag, "repair", false, "fix the issues found instead of only reporting them")
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(purgeCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(inspectCmd)
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Scan the ownership graph for broken references",
	Long: `Scan every user, folder, note, task, and pet for dangling child ids,
orphaned records, and broken pet links.

Examples:
  # Report issues without touching anything
  petnotes-admin verify

  # Fix everything the scan finds
  petnotes-admin verify --repair`,
	RunE: runVerify,
}

var purgeCmd = &cobra.Command{
	Use:   "purge <kind> <id>",
	Short: "Delete an entity and every descendant it owns",
	Long: `Delete the named record along with its whole subtree: a folder takes its
notes and their tasks, a note takes its tasks, a user takes everything
including the pet. The parent's child list is updated afterwards.

Examples:
  petnotes-admin purge folder 6dfc2a9e-8a3e-4a3f-9c3b-0f6a2b1c9d7e
  petnotes-admin purge user 1b4e28ba-2fa1-11d2-883f-0016d3cca427`,
	Args: cobra.ExactArgs(2),
	RunE: runPurge,
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Mark pending tasks past their due date as overdue",
	RunE:  runSweep,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print a snapshot of the graph and the host",
	RunE:  runStats,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <kind> <id>",
	Short: "Print one entity the way the API layer renders it",
	Args:  cobra.ExactArgs(2),
	RunE:  runInspect,
}

// adminEnv bundles the stores and services a command needs along with the
// connections to close when it is done.
type adminEnv struct {
	client  *mongo.Client
	cache   *services.PetCache
	stores  repository.Stores
	coord   *usecase.Coordinator
	tasks   *usecase.TaskService
	checker *usecase.IntegrityChecker
}

func newAdminEnv() (*adminEnv, error) {
	dbConfig := config.LoadDatabaseConfig()
	client, err := utils.ConnectMongo(dbConfig.ClientOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	stores := repository.Stores{
		Users:   repository.GetUserRepo(client),
		Folders: repository.GetFolderRepo(client),
		Notes:   repository.GetNoteRepo(client),
		Tasks:   repository.GetTaskRepo(client),
		Pets:    repository.GetPetRepo(client),
	}

	// The pet cache is optional for admin work, commands only need it to
	// invalidate entries they make stale.
	var cache *services.PetCache
	if redisURL := utils.GetEnvAsString("REDIS_URL", ""); redisURL != "" {
		cache, err = services.NewPetCache(redisURL)
		if err != nil {
			log.Printf("Pet cache unavailable, continuing without it: %v", err)
		}
	}

	coord := usecase.NewCoordinator(stores, cache)
	dispatcher := &services.RewardDispatcher{Pets: stores.Pets, Cache: cache}

	return &adminEnv{
		client:  client,
		cache:   cache,
		stores:  stores,
		coord:   coord,
		tasks:   usecase.NewTaskService(stores, config.LoadRewardConfig(), dispatcher, coord),
		checker: usecase.NewIntegrityChecker(stores, coord),
	}, nil
}

func (e *adminEnv) Close() {
	if e.cache != nil {
		if err := e.cache.Close(); err != nil {
			log.Printf("Failed to close pet cache: %v", err)
		}
	}
	if err := e.client.Disconnect(context.Background()); err != nil {
		log.Printf("Failed to disconnect from MongoDB: %v", err)
	}
}

func runVerify(cmd *cobra.Command, args []string) error {
	env, err := newAdminEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	ctx := cmd.Context()
	var report *usecase.Report
	if repairFlag {
		report, err = env.checker.Repair(ctx)
	} else {
		report, err = env.checker.Check(ctx)
	}
	if err != nil {
		return fmt.Errorf("graph scan failed: %w", err)
	}

	for _, issue := range report.Issues {
		fmt.Printf("%-22s %s\n", issue.Kind, issue.Detail)
	}
	if report.Clean() {
		fmt.Println("Graph is consistent")
		return nil
	}

	fmt.Printf("Found %d issue(s)", len(report.Issues))
	if repairFlag {
		fmt.Printf(", repaired %d", report.Repaired)
	} else {
		fmt.Print(", rerun with --repair to fix them")
	}
	fmt.Println()

	if repairFlag {
		ops := utils.GetStoreOpCounts()
		fmt.Printf("Store traffic: %d finds, %d saves, %d deletes, %d detaches, %d attaches\n",
			ops.Finds, ops.Saves, ops.Deletes, ops.Pulls, ops.Pushes)
	}
	return nil
}

func runPurge(cmd *cobra.Command, args []string) error {
	kind, ok := model.ParseKind(args[0])
	if !ok {
		return fmt.Errorf("unknown entity kind %q, expected one of user, folder, note, task, pet", args[0])
	}

	env, err := newAdminEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.coord.DeleteSubtree(cmd.Context(), kind, args[1]); err != nil {
		return fmt.Errorf("purge failed: %w", err)
	}

	fmt.Printf("Purged %s %s and its subtree\n", kind, args[1])
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	env, err := newAdminEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	moved, err := env.tasks.SweepOverdue(cmd.Context())
	if err != nil {
		return fmt.Errorf("overdue sweep failed: %w", err)
	}

	fmt.Printf("Marked %d task(s) overdue\n", moved)
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	env, err := newAdminEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	stats, err := usecase.GatherStats(cmd.Context(), env.stores)
	if err != nil {
		return fmt.Errorf("stats collection failed: %w", err)
	}

	out, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	fmt.Printf("CPU: %.1f%%  Memory: %.1f%%\n", utils.GetCPUUsage(), utils.GetMemoryUsage())
	return nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	kind, ok := model.ParseKind(args[0])
	if !ok {
		return fmt.Errorf("unknown entity kind %q, expected one of user, folder, note, task, pet", args[0])
	}

	env, err := newAdminEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	ctx := cmd.Context()
	id := args[1]

	var rendered any
	switch kind {
	case model.KindUser:
		user, err := env.stores.Users.FindUser(ctx, id)
		if err != nil {
			return err
		}
		rendered = dto.ToUserResponse(user)
	case model.KindFolder:
		folder, err := env.stores.Folders.FindFolder(ctx, id)
		if err != nil {
			return err
		}
		rendered = dto.ToFolderResponse(folder)
	case model.KindNote:
		note, err := env.stores.Notes.FindNote(ctx, id)
		if err != nil {
			return err
		}
		rendered = dto.ToNoteResponse(note)
	case model.KindTask:
		task, err := env.stores.Tasks.FindTask(ctx, id)
		if err != nil {
			return err
		}
		rendered = dto.ToTaskResponse(task)
	case model.KindPet:
		pet, err := env.stores.Pets.FindPet(ctx, id)
		if err != nil {
			return err
		}
		rendered = dto.ToPetResponse(pet)
	}

	out, err := json.MarshalIndent(rendered, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
