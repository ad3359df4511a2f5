package root

import (
	"context"
	"fmt"

	"github.com/alexrudd2/midas/internal/displayer"
	"github.com/alexrudd2/midas/internal/midas"
	"github.com/alexrudd2/midas/internal/midas/mock"
	"github.com/alexrudd2/midas/internal/midas/modbus"
	"github.com/alexrudd2/midas/internal/models"
	"github.com/alexrudd2/midas/pkg/log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func Run(cmd *cobra.Command, args []string) {
	detector, err := newDetector(args)
	if err != nil {
		log.Fatal("failed to create detector", zap.Error(err))
	}

	if viper.GetBool("no-tui") {
		printSummary(detector)
		return
	}

	d := displayer.New(detector)
	if err := d.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

// newDetector builds the detector from flags: the simulator with --mock,
// otherwise the Modbus/TCP client for the given address.
func newDetector(args []string) (midas.Detector, error) {
	if viper.GetBool("mock") {
		return mock.New(), nil
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("detector address required (or use --mock)")
	}
	return modbus.New(modbus.Config{
		Address: args[0],
		UnitID:  byte(viper.GetInt("unit-id")),
		Timeout: viper.GetDuration("timeout"),
	}), nil
}

func printSummary(detector midas.Detector) {
	ctx := context.Background()
	if err := detector.Start(ctx); err != nil {
		log.Fatal("failed to start detector", zap.Error(err))
	}
	defer detector.Stop()

	status, err := detector.Read(ctx)
	if err != nil {
		log.Error("failed to read detector", zap.Error(err))
		return
	}

	fmt.Printf("State: %s\n", status.StateName)
	fmt.Printf("Concentration: %.4g %s\n", status.Concentration, status.UnitName)
	fmt.Printf("Alarm: %s\n", status.AlarmName)
	if status.Fault.Status == models.FaultNone {
		fmt.Println("Fault: none")
	} else {
		fmt.Printf("Fault: %s (%s)\n", status.Fault.Code, status.Fault.Description)
	}
}
