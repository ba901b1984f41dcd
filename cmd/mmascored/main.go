package main

import (
	"context"
	"mmascorecard-backend/cmd/mmascored/commands"
	"mmascorecard-backend/lib/telemetry"
)

func main() {
	telemetry.SetupFromEnv(context.Background(), "mmascored")
	telemetry.InitSlog(true)
	commands.ExecuteContext(context.Background())
}
