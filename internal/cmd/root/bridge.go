package root

import (
	"context"
	"os"
	"os/signal"

	"github.com/alexrudd2/midas/internal/bridge"
	"github.com/alexrudd2/midas/pkg/log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// RunBridge polls the detector and publishes state documents to MQTT
// until interrupted.
func RunBridge(cmd *cobra.Command, args []string) {
	detector, err := newDetector(args)
	if err != nil {
		log.Fatal("failed to create detector", zap.Error(err))
	}

	pub, err := bridge.NewMQTTPublisher(bridge.MQTTConfig{
		BrokerURL: viper.GetString("broker"),
		ClientID:  viper.GetString("client-id"),
		Username:  viper.GetString("username"),
		Password:  viper.GetString("password"),
	})
	if err != nil {
		log.Fatal("failed to connect to broker", zap.Error(err))
	}

	b := bridge.New(detector, pub, bridge.Config{
		DeviceID: viper.GetString("device-id"),
		Model:    viper.GetString("model"),
		Interval: viper.GetDuration("interval"),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Info("bridge started",
		zap.String("broker", viper.GetString("broker")),
		zap.String("device-id", viper.GetString("device-id")))

	if err := b.Run(ctx); err != nil {
		log.Fatal("bridge stopped", zap.Error(err))
	}
}
