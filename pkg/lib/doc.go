// Package lib provides a Go SDK for managing todo task lists programmatically.
//
// This package allows applications to manage the same task list the todo CLI
// uses without shelling out to the binary. It is useful for scripting,
// automation, and building tools on top of todo.
//
// # Quick Start
//
//	client, err := lib.New(ctx, lib.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	task, err := client.AddTask(ctx, "buy milk")
//	client.ToggleTask(ctx, task.ID)
//	tasks, err := client.ListTasks(ctx, &lib.ListTasksOpts{Status: lib.StatusActive})
//
// # Storage
//
// The SDK supports two storage types:
//
//   - [StorageSQLite]: The tasks are stored on a SQLite database (~/.todo/todo.db by
//     default), shared with the CLI.
//   - [StorageMemory]: The tasks only live while the client is alive. Use this for
//     unit testing.
//
// # Import and Export
//
// Exported data is a bare list of tasks that can be imported back, replacing the
// current tasks or merging them after the current ones with new ids:
//
//	data, _ := client.Export(ctx, lib.FormatJSON)
//	res, _ := other.Import(ctx, data, lib.FormatJSON, lib.StrategyMerge)
//
// # Error Handling
//
// All methods return errors that can be inspected with [errors.Is]:
//
//   - [ErrNotValid]: Invalid input (e.g. empty task text or an invalid filter).
//   - [ErrImportFormat]: Import data is not a list of tasks.
//   - [ErrImportEmpty]: Import data doesn't have any valid task.
//   - [ErrStorageWrite]: The change was applied but it could not be saved. The
//     result is returned together with the error and the client keeps working.
//   - [ErrStorageCorrupt]: Returned by [Client.LoadWarning] when the stored tasks
//     could not be read. The client starts with an empty list and the old data is
//     kept in a backup slot when possible.
//
// # Thread Safety
//
// A [Client] is safe for concurrent use from multiple goroutines.
package lib
