package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Logger struct {
	Level string `yaml:"level"`
}

type Global struct {
	Logger Logger `yaml:"logger"`
}

type Kafka struct {
	Brokers        string `yaml:"brokers"`
	Topic          string `yaml:"topic"`
	Group          string `yaml:"group"`
	SchemaRegistry string `yaml:"schema_registry"`
	RecordSide     string `yaml:"record_side"`
}

type File struct {
	Schema string `yaml:"schema"`
	Data   string `yaml:"data"`
}

type Source struct {
	Type  string `yaml:"type"`
	Kafka Kafka  `yaml:"kafka"`
	File  File   `yaml:"file"`
}

type ParquetField struct {
	Name           string `yaml:"name"`
	Type           string `yaml:"type"`
	ConvertedType  string `yaml:"converted_type"`
	RepetitionType string `yaml:"repetition_type"`
}

type Parquet struct {
	// Schema lists the columns explicitly; AvroSchema derives them from an
	// avro schema file instead. One of the two must be set.
	Schema     []ParquetField `yaml:"schema"`
	AvroSchema string         `yaml:"avro_schema"`
}

type Preserver struct {
	Type                string  `yaml:"type"`
	BatchSizeNumRecords int     `yaml:"batch_size_num_records"`
	Parquet             Parquet `yaml:"parquet"`
}

type Local struct {
	Path string `yaml:"path"`
}

type S3 struct {
	Bucket         string `yaml:"bucket"`
	Region         string `yaml:"region"`
	Prefix         string `yaml:"prefix"`
	Endpoint       string `yaml:"endpoint"`
	ForcePathStyle bool   `yaml:"force_path_style"`
}

type Repository struct {
	Type  string `yaml:"type"`
	Local Local  `yaml:"local"`
	S3    S3     `yaml:"s3"`
}

type Bridge struct {
	Name           string   `yaml:"name"`
	Mode           string   `yaml:"mode"`
	Fields         []string `yaml:"fields"`
	DeepExtraction bool     `yaml:"deep_extraction"`

	Source     Source     `yaml:"source"`
	Preserver  Preserver  `yaml:"preserver"`
	Repository Repository `yaml:"repository"`
}

type Config struct {
	Global Global `yaml:"global"`
	Bridge Bridge `yaml:"bridge"`
}

func NewFromFile(fpath string) (*Config, error) {
	bs, err := os.ReadFile(fpath)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(bs, &config); err != nil {
		return nil, err
	}

	return &config, nil
}
