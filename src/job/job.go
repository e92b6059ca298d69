package job

import (
	"time"

	jsoniter "github.com/json-iterator/go"
)

type Job struct {
	ID string `json:"id"`

	Operation Operation `json:"operation"`
	// Encode overlays the configured encoder settings for OperationEncode,
	// fields left out keep their configured value.
	Encode jsoniter.RawMessage `json:"encode,omitempty"`

	RawProvider           RawProvider         `json:"raw_provider"`
	RawProviderDetails    jsoniter.RawMessage `json:"raw_provider_details"`
	ResultConsumer        ResultConsumer      `json:"result_consumer"`
	ResultConsumerDetails jsoniter.RawMessage `json:"result_consumer_details"`
}

type Operation string

const (
	// OperationEncode turns a png/jpeg/gif/tiff/bmp input into an avif.
	OperationEncode Operation = "encode"
	// OperationDecode turns an avif input into a png.
	OperationDecode Operation = "decode"
	// OperationIdentify reports the avifdec info of an avif input.
	OperationIdentify Operation = "identify"
)

func (o Operation) Valid() bool {
	switch o {
	case OperationEncode, OperationDecode, OperationIdentify:
		return true
	}
	return false
}

type File struct {
	Name        string        `json:"name"`
	Size        int           `json:"size"`
	ContentType string        `json:"content_type"`
	Width       int           `json:"width"`
	Height      int           `json:"height"`
	Checksum    string        `json:"checksum"`
	TimeTaken   time.Duration `json:"time_taken"`
}

type RawProviderDetailsAws struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

type RawProviderDetailsLocal struct {
	Path string `json:"path"`
}

type ResultConsumerDetailsAws struct {
	Bucket    string `json:"bucket"`
	KeyFolder string `json:"key_folder"`
}

type ResultConsumerDetailsLocal struct {
	PathFolder string `json:"path_folder"`
}

type RawProvider string

const (
	AwsProvider   RawProvider = "aws"
	LocalProvider RawProvider = "local"
)

type ResultConsumer string

const (
	AwsConsumer   ResultConsumer = "aws"
	LocalConsumer ResultConsumer = "local"
	// NoConsumer keeps nothing, used by identify jobs.
	NoConsumer ResultConsumer = ""
)
