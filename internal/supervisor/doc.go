// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

/*
Package supervisor runs the long-lived StarMaps services under a suture v4
supervisor tree.

	RootSupervisor ("starmaps")
	├── MaintenanceSupervisor ("maintenance-layer")
	│   ├── store-gc          (value log GC, on-disk stores only)
	│   ├── auth-purge        (expired sessions and magic links)
	│   └── validation-cache  (expired query verdicts)
	└── APISupervisor ("api-layer")
	    └── http-server

A crashing maintenance task is restarted with backoff and never takes the
HTTP server down with it. Supervisor events are logged through sutureslog.

	tree, err := supervisor.NewSupervisorTree(slogger, supervisor.DefaultTreeConfig())
	tree.AddMaintenanceService(services.NewPeriodicService("store-gc", 10*time.Minute, gcTask))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	err = tree.Serve(ctx)
*/
package supervisor
