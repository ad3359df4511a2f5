package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/alexrudd2/midas/internal/cmd/root"
	"github.com/alexrudd2/midas/pkg/log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "midas [address]",
	Short: "Driver and command line tool for Honeywell Midas gas detectors",
	Args:  cobra.MaximumNArgs(1),
	Run:   root.Run,
}

var getCmd = &cobra.Command{
	Use:   "get <address>",
	Short: "Print the detector state as JSON",
	Args:  cobra.ExactArgs(1),
	Run:   root.RunGet,
}

var faultsCmd = &cobra.Command{
	Use:   "faults [code ...]",
	Short: "Show the fault-code reference table",
	Run:   root.RunFaults,
}

var bridgeCmd = &cobra.Command{
	Use:   "bridge <address>",
	Short: "Publish detector state to an MQTT broker",
	Args:  cobra.ExactArgs(1),
	Run:   root.RunBridge,
}

func init() {
	cobra.OnInitialize(initLogger)

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")
	rootCmd.PersistentFlags().Bool("mock", false, "Use a simulated detector")
	rootCmd.PersistentFlags().Int("unit-id", 1, "Modbus unit (slave) ID")
	rootCmd.PersistentFlags().Duration("timeout", time.Second, "Connect and request timeout")
	rootCmd.PersistentFlags().Duration("interval", time.Second, "Polling interval for streaming modes")
	rootCmd.Flags().Bool("no-tui", false, "Run without TUI (print a one-shot summary)")

	getCmd.Flags().Bool("stream", false, "Keep polling and printing until interrupted")

	bridgeCmd.Flags().String("broker", "", "MQTT broker URL, e.g. tcp://localhost:1883")
	bridgeCmd.Flags().String("client-id", "", "MQTT client ID")
	bridgeCmd.Flags().String("username", "", "MQTT username")
	bridgeCmd.Flags().String("password", "", "MQTT password")
	bridgeCmd.Flags().String("device-id", "midas", "Device ID used in topic names")
	bridgeCmd.Flags().String("model", "Midas", "Device model for the meta announcement")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("mock", rootCmd.PersistentFlags().Lookup("mock"))
	viper.BindPFlag("unit-id", rootCmd.PersistentFlags().Lookup("unit-id"))
	viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	viper.BindPFlag("interval", rootCmd.PersistentFlags().Lookup("interval"))
	viper.BindPFlag("no-tui", rootCmd.Flags().Lookup("no-tui"))
	viper.BindPFlag("stream", getCmd.Flags().Lookup("stream"))
	viper.BindPFlag("broker", bridgeCmd.Flags().Lookup("broker"))
	viper.BindPFlag("client-id", bridgeCmd.Flags().Lookup("client-id"))
	viper.BindPFlag("username", bridgeCmd.Flags().Lookup("username"))
	viper.BindPFlag("password", bridgeCmd.Flags().Lookup("password"))
	viper.BindPFlag("device-id", bridgeCmd.Flags().Lookup("device-id"))
	viper.BindPFlag("model", bridgeCmd.Flags().Lookup("model"))

	// Set default values
	viper.SetDefault("debug", false)
	viper.SetDefault("mock", false)
	viper.SetDefault("unit-id", 1)
	viper.SetDefault("timeout", time.Second)
	viper.SetDefault("interval", time.Second)

	rootCmd.AddCommand(getCmd, faultsCmd, bridgeCmd)
}

func initLogger() {
	log.InitLogger(viper.GetBool("debug"))
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
