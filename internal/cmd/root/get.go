package root

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/alexrudd2/midas/pkg/log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// RunGet prints the detector state as JSON, once or on an interval
// with --stream.
func RunGet(cmd *cobra.Command, args []string) {
	detector, err := newDetector(args)
	if err != nil {
		log.Fatal("failed to create detector", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := detector.Start(ctx); err != nil {
		log.Fatal("failed to start detector", zap.Error(err))
	}
	defer detector.Stop()

	printStatus := func() error {
		status, err := detector.Read(ctx)
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	if err := printStatus(); err != nil {
		log.Fatal("failed to read detector", zap.Error(err))
	}

	if !viper.GetBool("stream") {
		return
	}

	ticker := time.NewTicker(viper.GetDuration("interval"))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := printStatus(); err != nil {
				log.Error("failed to read detector", zap.Error(err))
			}
		}
	}
}
