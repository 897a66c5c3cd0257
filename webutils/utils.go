package webutils

import (
	"encoding/json"
	"io"
	"io/ioutil"
	"log"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

func WriteFileHeaders(w http.ResponseWriter, name string) {
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+name+"\"")
}

func WriteFile(w http.ResponseWriter, in io.Reader, name string) {
	WriteFileHeaders(w, name)
	if _, err := io.Copy(w, in); err != nil {
		log.Printf("[web] Error when writing file %q: %v", name, err)
	}
}

func WriteJson(w http.ResponseWriter, data interface{}) {
	res, err := json.Marshal(data)
	if err != nil {
		WriteError(w, errors.Wrapf(err, "Failed to marshal"))
	} else {
		w.Header().Set("Content-Type", "application/json")
		WriteResult(w, res)
	}
}

// ReadJson decodes a POST body into v.
func ReadJson(r *http.Request, v interface{}) error {
	if strings.ToUpper(r.Method) != "POST" {
		return errors.Errorf("Invalid http method %q", r.Method)
	}

	data, err := ioutil.ReadAll(r.Body)
	if err != nil {
		return errors.Wrapf(err, "Failed to read")
	}

	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrapf(err, "Failed to unmarshal")
	}

	return nil
}

func WriteResult(w http.ResponseWriter, data []byte) {
	_, err := w.Write(data)
	if err != nil {
		log.Printf("[web] Error when writing response: %v", err)
	}
}

// WriteErrorStatus reports err as a json object with the given http status.
func WriteErrorStatus(w http.ResponseWriter, code int, err error) {
	type jError struct {
		Error string `json:"error"`
	}
	data, merr := json.Marshal(&jError{Error: err.Error()})
	if merr != nil {
		log.Printf("[web] Error marshaling error '%v': %v", err, merr)
		return
	}
	log.Printf("[web] HERR: %v", string(data))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	WriteResult(w, data)
}

func WriteError(w http.ResponseWriter, err error) {
	WriteErrorStatus(w, http.StatusInternalServerError, err)
}
