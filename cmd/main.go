package main

import "github.com/tasknest-app/tasknest/internal/app"

func main() {
	app.InitDefaultLogger()
	app.MustReadEnv()
	app.MustInitApplicationLogger()

	app.MustConnectFirebase()
	defer app.DisconnectFirebase()

	app.MustOpenHintStore()
	defer app.CloseHintStore()

	app.MustBuildStores()

	app.MustStartScheduler()
	defer app.StopScheduler()

	app.MustListenAndServeHTTP()
}
