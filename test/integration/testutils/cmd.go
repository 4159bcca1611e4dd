package testutils

import (
	"bytes"
	"context"
	"os"
	"os/exec"
)

// RunTodo executes a todo command with pre-split arguments against a database file.
func RunTodo(ctx context.Context, env []string, binary, dbPath string, args []string, nolog bool) (stdout, stderr []byte, err error) {
	var outData, errData bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdout = &outData
	cmd.Stderr = &errData

	// Custom env goes after the host env so it wins on duplicated keys.
	newEnv := append([]string{}, os.Environ()...)
	newEnv = append(newEnv, "TODO_DB_PATH="+dbPath)
	newEnv = append(newEnv, env...)
	if nolog {
		newEnv = append(newEnv, "TODO_NO_LOG=true")
	}
	cmd.Env = newEnv

	err = cmd.Run()

	return outData.Bytes(), errData.Bytes(), err
}
