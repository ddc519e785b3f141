package app

import (
	"context"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/tasknest-app/tasknest/internal/config"
)

var (
	globalFirestoreClient *firestore.Client
	globalAuthClient      *fbauth.Client
)

func MustConnectFirebase() {
	cfg := config.Global().Firebase

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	ctx := context.Background()
	fbApp, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID: cfg.ProjectID,
	}, opts...)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to initialize firebase app")
		panic(err)
	}

	globalAuthClient, err = fbApp.Auth(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to create firebase auth client")
		panic(err)
	}

	globalFirestoreClient, err = firestore.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to create firestore client")
		panic(err)
	}

	globalLogger.Info().
		Str("project_id", cfg.ProjectID).
		Msg("connected to firebase")
}

func DisconnectFirebase() {
	err := globalFirestoreClient.Close()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to close firestore client")
		return
	}
	globalLogger.Info().Msg("disconnected from firebase")
}
