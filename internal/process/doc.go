// Package process terminates the headless browsers started by render
// surfaces. Chrome forks renderer and GPU helpers; killing only the launcher
// PID leaves them running, so the whole process group (or tree) is killed.
package process
