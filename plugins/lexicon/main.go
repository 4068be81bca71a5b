package main

import (
	"context"

	"github.com/hashicorp/go-plugin"

	sentimentout "wellness/internal/modules/sentiment/adapter/out"
	sentimentrpc "wellness/internal/modules/sentiment/adapter/out/rpc"
	sentimentport "wellness/internal/modules/sentiment/port/out"
)

type server struct {
	analyzer sentimentport.Analyzer
}

func (s *server) GetMetadata(ctx context.Context, _ *sentimentrpc.Empty) (*sentimentrpc.Metadata, error) {
	meta, err := s.analyzer.Metadata(ctx)
	if err != nil {
		return nil, err
	}
	return &sentimentrpc.Metadata{Name: meta.Name, Version: meta.Version}, nil
}

func (s *server) Analyze(ctx context.Context, in *sentimentrpc.AnalyzeRequest) (*sentimentrpc.AnalyzeResponse, error) {
	score, err := s.analyzer.Analyze(ctx, in.Text)
	if err != nil {
		return nil, err
	}
	return &sentimentrpc.AnalyzeResponse{Score: score}, nil
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: sentimentrpc.HandshakeConfig,
		Plugins:         sentimentrpc.PluginMap(&server{analyzer: sentimentout.NewLexiconAnalyzer(nil)}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
