package clients

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/opensearch-project/opensearch-go/v4"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"
)

var (
	opensearchInstance Opensearch
	opensearchOnce     sync.Once
)

type Opensearch struct {
	Client *opensearch.Client
}

func GetOpensearchClient(ctx context.Context) Opensearch {
	opensearchOnce.Do(func() {
		appEnv := os.Getenv("APP_ENV")

		var cfg opensearch.Config

		if appEnv == "prod" {
			awsCfg := GetAWSConfig()

			signer := v4.NewSigner()
			creds := awsCfg.Credentials
			region := awsCfg.Region

			cfg = opensearch.Config{
				Addresses: []string{os.Getenv("AWS_OPENSEARCH_ENDPOINT")},
				Transport: NewSigV4Transport(creds, signer, region, "es"),
			}
		} else {
			if os.Getenv("OPENSEARCH_ENDPOINT") == "" || os.Getenv("OPENSEARCH_PASSWORD") == "" {
				log.Fatal("Missing credentials for opensearch")
			}
			cfg = opensearch.Config{
				Addresses: []string{os.Getenv("OPENSEARCH_ENDPOINT")},
				Password:  os.Getenv("OPENSEARCH_PASSWORD"),
			}
		}

		client, err := opensearch.NewClient(cfg)
		if err != nil {
			log.Fatalf("failed to initialize OpenSearch Client: %v", err.Error())
		}

		opensearchInstance = Opensearch{
			client,
		}
	})
	return opensearchInstance
}

type sigV4Transport struct {
	credentials aws.CredentialsProvider
	signer      *v4.Signer
	region      string
	service     string
	next        http.RoundTripper
}

func NewSigV4Transport(creds aws.CredentialsProvider, signer *v4.Signer, region string, service string) http.RoundTripper {
	return &sigV4Transport{
		credentials: creds,
		signer:      signer,
		region:      region,
		service:     service,
		next:        http.DefaultTransport,
	}
}

func (t *sigV4Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	creds, err := t.credentials.Retrieve(context.Background())
	if err != nil {
		return nil, err
	}

	signedReq := req.Clone(req.Context())

	signedReq.Header.Del("Authorization")

	err = t.signer.SignHTTP(
		context.Background(),
		creds,
		signedReq,
		v4.GetPayloadHash(req.Context()),
		t.service,
		t.region,
		time.Now(),
	)
	if err != nil {
		return nil, err
	}

	return t.next.RoundTrip(signedReq)
}

func (o Opensearch) IsHealthy(ctx context.Context) bool {
	req := opensearchapi.ClusterHealthReq{}
	res, err := o.Client.Do(ctx, req, nil)
	if err != nil {
		return false
	}
	defer res.Body.Close()

	if res.IsError() {
		return false
	}

	return res.StatusCode == http.StatusOK
}

// BulkIndex submits an NDJSON bulk body to an index.
func (o Opensearch) BulkIndex(ctx context.Context, index string, body io.Reader) error {
	slog.Info("[OpenSearchClient] Submitting bulk request", slog.String("index", index))

	req := opensearchapi.BulkReq{
		Index: index,
		Body:  body,
	}

	res, err := o.Client.Do(ctx, req, nil)
	if err != nil {
		slog.Error("[OpenSearchClient] Bulk request failed",
			slog.String("error", err.Error()))
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		slog.Error("[OpenSearchClient] OpenSearch bulk error",
			slog.String("status", res.Status()))
		return fmt.Errorf("opensearch error: %s", res.Status())
	}

	return nil
}
