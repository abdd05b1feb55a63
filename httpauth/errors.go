package httpauth

import (
	"encoding/json"
	"net/http"

	"github.com/gooby/ezauth/errors"
	"google.golang.org/genproto/googleapis/rpc/code"
)

// ErrorResponse is the body written for errors returned from a HandlerFunc.
// It matches the shape the GRPC Gateway uses for failed RPCs.
type ErrorResponse struct {
	Code     int32  `json:"code"`
	CodeName string `json:"codeName"`
	Message  string `json:"message"`
}

func writeError(w http.ResponseWriter, err error) {
	c := int32(errors.Code(err))
	b, ferr := json.Marshal(&ErrorResponse{
		Code:     c,
		CodeName: code.Code_name[c],
		Message:  errors.PublicMessage(err),
	})
	if ferr != nil {
		http.Error(w, "error encoding response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(errors.HTTPStatusCode(err))
	w.Write(b)
}
