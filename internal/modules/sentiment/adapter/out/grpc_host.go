package out

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	sentimentrpc "wellness/internal/modules/sentiment/adapter/out/rpc"
	"wellness/internal/modules/sentiment/domain"
	sentimentout "wellness/internal/modules/sentiment/port/out"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 5 * time.Second
)

// GRPCAnalyzer runs the analyzer binary as a go-plugin subprocess. Each call
// starts a fresh process and kills it afterwards.
type GRPCAnalyzer struct {
	binary string
	logger hclog.Logger
}

func NewGRPCAnalyzer(binary string, logger hclog.Logger) sentimentout.Analyzer {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &GRPCAnalyzer{binary: binary, logger: logger}
}

func (a *GRPCAnalyzer) Metadata(ctx context.Context) (domain.Metadata, error) {
	client, closeFn, err := a.connect()
	if err != nil {
		return domain.Metadata{}, err
	}
	defer closeFn()

	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()
	meta, err := client.GetMetadata(callCtx)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("get metadata: %w", err)
	}
	return domain.Metadata{Name: meta.Name, Version: meta.Version}, nil
}

func (a *GRPCAnalyzer) Analyze(ctx context.Context, text string) (float64, error) {
	client, closeFn, err := a.connect()
	if err != nil {
		return 0, err
	}
	defer closeFn()

	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()
	response, err := client.Analyze(callCtx, &sentimentrpc.AnalyzeRequest{Text: text})
	if err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			return 0, fmt.Errorf("analyze: timed out after %s", defaultCallTimeout)
		}
		return 0, fmt.Errorf("analyze: %w", err)
	}
	return response.Score, nil
}

func (a *GRPCAnalyzer) connect() (sentimentrpc.AnalyzerClient, func(), error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  sentimentrpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          sentimentrpc.PluginMap(nil),
		Cmd:              exec.Command(a.binary),
		Managed:          true,
		StartTimeout:     defaultStartTimeout,
		Logger:           a.logger,
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("start analyzer plugin: %w", err)
	}
	raw, err := rpcClient.Dispense(sentimentrpc.PluginMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense analyzer: %w", err)
	}
	typed, ok := raw.(sentimentrpc.AnalyzerClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("analyzer rpc client type mismatch")
	}
	return typed, closeFn, nil
}

func callContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
