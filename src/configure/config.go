package configure

import (
	"bytes"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func checkErr(err error) {
	if err != nil {
		logrus.WithError(err).Fatal("config")
	}
}

func New() *Config {
	config := viper.New()
	config.SetConfigType("yaml")

	b, err := json.Marshal(Default())

	checkErr(err)
	tmp := viper.New()
	tmp.SetConfigType("json")
	checkErr(tmp.ReadConfig(bytes.NewBuffer(b)))
	checkErr(config.MergeConfigMap(tmp.AllSettings()))

	pflag.String("config", "config.yaml", "Config file location")
	pflag.Bool("noheader", false, "Disable the startup header")
	pflag.String("identify", "", "Print the avifdec report of a file and exit")
	pflag.Parse()
	checkErr(config.BindPFlags(pflag.CommandLine))

	config.SetConfigFile(config.GetString("config"))
	if err := config.ReadInConfig(); err == nil {
		checkErr(config.MergeInConfig())
	}

	cfg := Config{}

	config.SetEnvPrefix("AVIF")
	config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	config.AllowEmptyEnv(true)
	config.AutomaticEnv()

	checkErr(config.Unmarshal(&cfg))

	initLogging(cfg.LogLevel, cfg.LogFormat)

	return &cfg
}

// Default is the configuration used before files, flags and env are merged.
func Default() Config {
	cfg := Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Config:          "config.yaml",
		WorkingDir:      "/tmp/avif-processor",
		MaxTaskDuration: 300,
	}

	cfg.Avif.CQLevel = 18
	cfg.Avif.Speed = -1

	cfg.Rmq.JobQueueName = "avif-processor-jobs"
	cfg.Rmq.ResultQueueName = "avif-processor-results"
	cfg.Rmq.UpdateQueueName = "avif-processor-updates"

	return cfg
}

type Config struct {
	LogLevel  string `json:"log_level,omitempty" mapstructure:"log_level,omitempty"`
	LogFormat string `json:"log_format,omitempty" mapstructure:"log_format,omitempty"`
	Config    string `json:"config,omitempty" mapstructure:"config,omitempty"`
	NoHeader  bool   `json:"noheader,omitempty" mapstructure:"noheader,omitempty"`
	Identify  string `json:"identify,omitempty" mapstructure:"identify,omitempty"`

	// Aws
	Aws struct {
		AccessToken string `json:"access_token,omitempty" mapstructure:"access_token,omitempty"`
		SecretKey   string `json:"secret_key,omitempty" mapstructure:"secret_key,omitempty"`
		Region      string `json:"region,omitempty" mapstructure:"region,omitempty"`
		Endpoint    string `json:"endpoint,omitempty" mapstructure:"endpoint,omitempty"`
	} `json:"aws,omitempty" mapstructure:"aws,omitempty"`

	Rmq struct {
		ServerURL       string `json:"server_url,omitempty" mapstructure:"server_url,omitempty"`
		JobQueueName    string `json:"job_queue_name,omitempty" mapstructure:"job_queue_name,omitempty"`
		ResultQueueName string `json:"result_queue_name,omitempty" mapstructure:"result_queue_name,omitempty"`
		UpdateQueueName string `json:"update_queue_name,omitempty" mapstructure:"update_queue_name,omitempty"`
	} `json:"rmq,omitempty" mapstructure:"rmq,omitempty"`

	// avifenc / avifdec
	Avif struct {
		EncoderPath string `json:"encoder_path,omitempty" mapstructure:"encoder_path,omitempty"`
		DecoderPath string `json:"decoder_path,omitempty" mapstructure:"decoder_path,omitempty"`
		BaseDir     string `json:"base_dir,omitempty" mapstructure:"base_dir,omitempty"`
		Speed       int    `json:"speed,omitempty" mapstructure:"speed,omitempty"`
		CQLevel     int    `json:"cq_level,omitempty" mapstructure:"cq_level,omitempty"`
		Lossless    bool   `json:"lossless,omitempty" mapstructure:"lossless,omitempty"`
	} `json:"avif,omitempty" mapstructure:"avif,omitempty"`

	WorkingDir      string `json:"working_dir,omitempty" mapstructure:"working_dir,omitempty"`
	MaxTaskDuration int    `json:"max_task_duration,omitempty" mapstructure:"max_task_duration,omitempty"`
	Av1Decoder      string `json:"av1_decoder,omitempty" mapstructure:"av1_decoder,omitempty"`
	Av1Encoder      string `json:"av1_encoder,omitempty" mapstructure:"av1_encoder,omitempty"`
}
