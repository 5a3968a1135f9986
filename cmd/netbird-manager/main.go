package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	netbird "github.com/peteraglen/netbird-go-client"
	"github.com/peteraglen/netbird-go-client/config"
	"github.com/peteraglen/netbird-go-client/manager"
	"github.com/peteraglen/netbird-go-client/models"
)

var (
	cfgFile  string
	logLevel string

	client *netbird.Client
	mgr    *manager.Manager
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "netbird-manager",
		Short: "Manage NetBird peers, groups and policies",
		Long: `netbird-manager talks to the NetBird management API to inspect peers
and maintain the groups and access policies that control traffic between them.

Authentication and connection settings are read from NETBIRD_* environment
variables and an optional configuration file.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(*cobra.Command, []string) { teardown() },
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Configuration file (JSON or YAML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARNING, ERROR, CRITICAL)")

	rootCmd.AddCommand(
		newListPeersCmd(),
		newListGroupsCmd(),
		newListPoliciesCmd(),
		newCreateGroupCmd(),
		newAddPeersToGroupCmd(),
		newCreatePolicyCmd(),
	)

	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func setup(_ *cobra.Command, _ []string) error {
	overrides := config.Default()
	if logLevel != "" {
		overrides.LogLevel = logLevel
		overrides.EnableLogging = true
	}

	cfg, err := config.Load(cfgFile, overrides)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	opts := cfg.Options()
	if cfg.EnableLogging {
		opts = append(opts, netbird.WithRequestLogger(netbird.NewSlogLogger(logger)))
	}

	client = netbird.New(cfg.APIURL, opts...)
	mgr = manager.New(client)
	return nil
}

func teardown() {
	if client != nil {
		client.Close()
	}
}

func setupLogger(level string) *slog.Logger {
	var slogLevel slog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		slogLevel = slog.LevelDebug
	case "WARNING":
		slogLevel = slog.LevelWarn
	case "ERROR", "CRITICAL":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slogLevel})
	return slog.New(handler)
}

func newListPeersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-peers",
		Short: "List all peers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			peers, err := mgr.ListPeers(cmd.Context())
			if err != nil {
				return err
			}
			printPeers(peers)
			return nil
		},
	}
}

func newListGroupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-groups",
		Short: "List all groups",
		RunE: func(cmd *cobra.Command, _ []string) error {
			groups, err := mgr.ListGroups(cmd.Context())
			if err != nil {
				return err
			}
			printGroups(groups)
			return nil
		},
	}
}

func newListPoliciesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-policies",
		Short: "List all policies",
		RunE: func(cmd *cobra.Command, _ []string) error {
			policies, err := mgr.ListPolicies(cmd.Context())
			if err != nil {
				return err
			}
			printPolicies(policies)
			return nil
		},
	}
}

func newCreateGroupCmd() *cobra.Command {
	var name, description string

	cmd := &cobra.Command{
		Use:   "create-group",
		Short: "Create a new group",
		RunE: func(cmd *cobra.Command, _ []string) error {
			group, err := mgr.CreateGroup(cmd.Context(), name, description)
			if err != nil {
				return err
			}
			fmt.Printf("Group created: %s (%s)\n", group.Name, group.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Group name (required)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Group description")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newAddPeersToGroupCmd() *cobra.Command {
	var peerIDs, groupName string
	var createGroup bool

	cmd := &cobra.Command{
		Use:   "add-peers-to-group",
		Short: "Add peers to a group",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ids := strings.Split(peerIDs, ",")
			group, err := mgr.AddPeersToGroup(cmd.Context(), ids, groupName, createGroup)
			if err != nil {
				return err
			}
			fmt.Printf("Peers added to group %q. Current members: %s\n",
				group.Name, joinOrNone(group.PeerIDs()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&peerIDs, "peer-ids", "p", "", "Peer IDs, comma-separated (required)")
	cmd.Flags().StringVarP(&groupName, "group-name", "g", "", "Group name (required)")
	cmd.Flags().BoolVarP(&createGroup, "create-group", "c", false, "Create the group if it does not exist")
	_ = cmd.MarkFlagRequired("peer-ids")
	_ = cmd.MarkFlagRequired("group-name")

	return cmd
}

func newCreatePolicyCmd() *cobra.Command {
	var groupName, policyName, description string
	var bidirectional bool

	cmd := &cobra.Command{
		Use:   "create-policy",
		Short: "Create or update a policy allowing traffic within a group",
		RunE: func(cmd *cobra.Command, _ []string) error {
			policy, err := mgr.CreatePolicy(cmd.Context(), groupName, policyName, description, bidirectional)
			if err != nil {
				return err
			}
			fmt.Printf("Policy created/updated: %s (%s)\n", policy.Name, policy.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&groupName, "group-name", "g", "", "Group name (required)")
	cmd.Flags().StringVarP(&policyName, "policy-name", "n", "", "Policy name (required)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Policy description")
	cmd.Flags().BoolVarP(&bidirectional, "bidirectional", "b", true, "Bidirectional communication")
	_ = cmd.MarkFlagRequired("group-name")
	_ = cmd.MarkFlagRequired("policy-name")

	return cmd
}

func printPeers(peers models.PeerList) {
	if len(peers) == 0 {
		fmt.Println("No peers found")
		return
	}

	fmt.Printf("Found %d peers:\n", len(peers))
	for _, peer := range peers {
		groups := make([]string, 0, len(peer.Groups))
		for _, ref := range peer.Groups {
			groups = append(groups, ref.Label())
		}

		fmt.Printf("ID: %s\n", peer.ID)
		fmt.Printf("Name: %s\n", peer.Name)
		fmt.Printf("IP: %s\n", peer.IP)
		fmt.Printf("Status: %s\n", peer.Status())
		fmt.Printf("Groups: %s\n", joinOrNone(groups))
		fmt.Println("---")
	}
}

func printGroups(groups models.GroupList) {
	if len(groups) == 0 {
		fmt.Println("No groups found")
		return
	}

	fmt.Printf("Found %d groups:\n", len(groups))
	for _, group := range groups {
		members := make([]string, 0, len(group.Peers))
		for _, ref := range group.Peers {
			members = append(members, ref.Label())
		}

		fmt.Printf("ID: %s\n", group.ID)
		fmt.Printf("Name: %s\n", group.Name)
		fmt.Printf("Peers Count: %d\n", group.PeersCount)
		fmt.Printf("Peers: %s\n", joinOrNone(members))
		fmt.Println("---")
	}
}

func printPolicies(policies models.PolicyList) {
	if len(policies) == 0 {
		fmt.Println("No policies found")
		return
	}

	fmt.Printf("Found %d policies:\n", len(policies))
	for _, policy := range policies {
		var sources, destinations []string
		bidirectional := false
		for _, rule := range policy.Rules {
			bidirectional = bidirectional || rule.Bidirectional
			for _, ref := range rule.Sources {
				sources = appendUnique(sources, ref.Label())
			}
			for _, ref := range rule.Destinations {
				destinations = appendUnique(destinations, ref.Label())
			}
		}

		fmt.Printf("ID: %s\n", policy.ID)
		fmt.Printf("Name: %s\n", policy.Name)
		fmt.Printf("Description: %s\n", policy.Description)
		fmt.Printf("Enabled: %t\n", policy.Enabled)
		fmt.Printf("Source Groups: %s\n", joinOrNone(sources))
		fmt.Printf("Destination Groups: %s\n", joinOrNone(destinations))
		fmt.Printf("Bidirectional: %t\n", bidirectional)
		fmt.Printf("Rules Count: %d\n", policy.RuleCount())
		fmt.Println("---")
	}
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}

func appendUnique(items []string, item string) []string {
	for _, existing := range items {
		if existing == item {
			return items
		}
	}
	return append(items, item)
}
