package schema

import (
	"fmt"
	"os"

	"github.com/amient/avro"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/mindis/avrobridge/internal/config"
	"github.com/mindis/avrobridge/internal/parquet"
)

func newGenerateCommand() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "generate",
		Short: "Generates a parquet schema from an avro schema file",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, _ := zap.NewDevelopment()
			l := logger.Named("schema.generate")
			l.Info(
				"avrobridge schema generate!",
				zap.String("schema", viper.GetString("schema")),
			)

			raw, err := os.ReadFile(viper.GetString("schema"))
			if err != nil {
				return err
			}

			avroSchema, err := avro.ParseSchema(string(raw))
			if err != nil {
				return fmt.Errorf("parsing avro schema: %w", err)
			}

			s, err := parquet.FromAvro(avroSchema)
			if err != nil {
				return err
			}

			cfg := config.SchemaToConfigFields(s)
			bs, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}

			fmt.Println(string(bs))
			return nil
		},
	}

	cmd.PersistentFlags().StringP("schema", "s", "", "Path to the avro schema file")
	viper.BindPFlag("schema", cmd.PersistentFlags().Lookup("schema"))
	viper.AutomaticEnv()
	viper.SetEnvPrefix("AVROBRIDGE")
	return cmd
}
