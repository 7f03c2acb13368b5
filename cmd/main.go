package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/urfave/cli/v2"

	"logfetch/handler"
	"logfetch/internal/integrations/cwlogs"
	"logfetch/internal/integrations/paramstore"
	"logfetch/internal/render"
	"logfetch/internal/usecase"
)

// appConfig holds every parameter of a run, populated once from CLI flags
// (with env fallbacks) before any work starts.
type appConfig struct {
	LogGroup      string
	Window        string
	Month         string
	Day           string
	StartTime     string
	EndTime       string
	FilterPattern string
	Region        string
	Profile       string
	CatalogParam  string
}

func main() {
	// Entry point doubles as the Lambda worker when deployed.
	if fn := os.Getenv("AWS_LAMBDA_FUNCTION_NAME"); fn != "" {
		runLambda(fn)
		return
	}
	if err := newApp().Run(os.Args); err != nil {
		slog.Error("logfetch failed", "err", err)
		os.Exit(1)
	}
}

func runLambda(fn string) {
	ctx := context.Background()
	slog.Info("starting lambda worker", "function", fn)

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		slog.Error("failed to load AWS config", "err", err)
		os.Exit(1)
	}
	client, err := cwlogs.New(cloudwatchlogs.NewFromConfig(cfg))
	if err != nil {
		slog.Error("failed to create cloudwatch logs client", "err", err)
		os.Exit(1)
	}
	svc, err := usecase.NewFetchService(client)
	if err != nil {
		slog.Error("failed to create fetch service", "err", err)
		os.Exit(1)
	}
	h, err := handler.NewHandler(svc)
	if err != nil {
		slog.Error("failed to create handler", "err", err)
		os.Exit(1)
	}

	lambda.Start(h.Handle)
}

func newApp() *cli.App {
	var cfg appConfig
	return &cli.App{
		Name:  "logfetch",
		Usage: "fetch CloudWatch Logs events over a resolved time window",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-group", Aliases: []string{"g"}, Usage: "log group to query", EnvVars: []string{"LOG_GROUP_NAME"}, Destination: &cfg.LogGroup},
			&cli.StringFlag{Name: "window", Aliases: []string{"w"}, Usage: "window length token (5m, 2h, 3d, 4w)", Value: usecase.DefaultWindowToken, Destination: &cfg.Window},
			&cli.StringFlag{Name: "month", Usage: "calendar mode: month name, or \"current\"", Value: usecase.CurrentMarker, Destination: &cfg.Month},
			&cli.StringFlag{Name: "day", Usage: "calendar mode: day of month, or \"current\"", Value: usecase.CurrentMarker, Destination: &cfg.Day},
			&cli.StringFlag{Name: "start-time", Usage: "range mode: window start, YYYY-MM-DDTHH:MM:SSZ", Destination: &cfg.StartTime},
			&cli.StringFlag{Name: "end-time", Usage: "range mode: window end, defaults to now", Destination: &cfg.EndTime},
			&cli.StringFlag{Name: "filter-pattern", Aliases: []string{"f"}, Usage: "CloudWatch Logs filter pattern", Destination: &cfg.FilterPattern},
			&cli.StringFlag{Name: "region", Usage: "AWS region override", Destination: &cfg.Region},
			&cli.StringFlag{Name: "profile", Usage: "AWS shared config profile", Destination: &cfg.Profile},
			&cli.StringFlag{Name: "catalog-param", Usage: "SSM parameter holding the log-group catalog", EnvVars: []string{"LOGFETCH_CATALOG_PARAM"}, Destination: &cfg.CatalogParam},
		},
		Action: func(c *cli.Context) error {
			return runFetch(c.Context, cfg)
		},
		Commands: []*cli.Command{
			{
				Name:  "groups",
				Usage: "list selectable log groups",
				Action: func(c *cli.Context) error {
					return runGroups(c.Context, cfg)
				},
			},
		},
	}
}

func runFetch(ctx context.Context, cfg appConfig) error {
	awsCfg, err := loadAWSConfig(ctx, cfg)
	if err != nil {
		return err
	}
	client, err := cwlogs.New(cloudwatchlogs.NewFromConfig(awsCfg))
	if err != nil {
		return err
	}
	svc, err := usecase.NewFetchService(client)
	if err != nil {
		return err
	}

	out, err := svc.Fetch(ctx, usecase.FetchInput{
		LogGroup:      cfg.LogGroup,
		Window:        cfg.Window,
		Month:         cfg.Month,
		Day:           cfg.Day,
		StartTime:     cfg.StartTime,
		EndTime:       cfg.EndTime,
		FilterPattern: cfg.FilterPattern,
	})
	if err != nil {
		return err
	}

	r := render.New(os.Stdout)
	r.Header(cfg.LogGroup, out.WindowLabel, cfg.FilterPattern, out.Window)
	r.Records(out.Records)
	return nil
}

func runGroups(ctx context.Context, cfg appConfig) error {
	awsCfg, err := loadAWSConfig(ctx, cfg)
	if err != nil {
		return err
	}
	client, err := cwlogs.New(cloudwatchlogs.NewFromConfig(awsCfg))
	if err != nil {
		return err
	}
	params, err := paramstore.New(awsssm.NewFromConfig(awsCfg))
	if err != nil {
		return err
	}
	svc, err := usecase.NewCatalogService(params, client, cfg.CatalogParam)
	if err != nil {
		return err
	}

	groups, err := svc.ListGroups(ctx)
	if err != nil {
		return err
	}
	render.New(os.Stdout).Groups(groups)
	return nil
}

// loadAWSConfig resolves the SDK session before any query work; a failure
// here is the missing-dependency case.
func loadAWSConfig(ctx context.Context, cfg appConfig) (aws.Config, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, &usecase.Error{
			Code:   usecase.ErrorMissingDependency,
			Reason: "aws_config_load_error",
			Err:    err,
		}
	}
	return awsCfg, nil
}
