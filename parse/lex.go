package parse

import "github.com/google/shlex"

// Split breaks s into arguments the way a POSIX shell would, honouring
// quotes and backslash escapes
func Split(s string) ([]string, error) {
	args, err := shlex.Split(s)
	if err != nil {
		return nil, err
	}

	return args, nil
}
