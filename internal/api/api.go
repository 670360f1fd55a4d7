package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"velo_front_end/internal/gateway"
)

// API est la surface typée de l'API commerce, un wrapper fin au-dessus
// de la passerelle. Convention de retour : (nil, nil) signifie que la
// passerelle a déjà purgé la session et redirigé vers le login — le
// handler appelant s'arrête sans rien afficher.
type API struct {
	gw *gateway.Client
}

func New(gw *gateway.Client) *API {
	return &API{gw: gw}
}

// Gateway expose la passerelle sous-jacente (multipart vendeur)
func (a *API) Gateway() *gateway.Client {
	return a.gw
}

// Error est une réponse non-2xx de l'API : le detail et les erreurs de
// champ sont réaffichés tels quels, le serveur reste la référence
type Error struct {
	Status int
	Detail string
	Fields map[string][]string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("l'API a répondu %d", e.Status)
}

// NotFound indique un vrai 404 ressource (état vide, pas une erreur)
func (e *Error) NotFound() bool {
	return e.Status == http.StatusNotFound
}

// Messages aplatit detail + erreurs de champ pour les toasts
func (e *Error) Messages() []string {
	var out []string
	if e.Detail != "" {
		out = append(out, e.Detail)
	}
	for field, msgs := range e.Fields {
		for _, m := range msgs {
			out = append(out, field+": "+m)
		}
	}
	if len(out) == 0 {
		out = append(out, "Opération impossible.")
	}
	return out
}

// decodeInto lit une réponse 2xx dans dst, sinon construit l'Error
func decodeInto(resp *http.Response, dst interface{}) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if dst == nil {
			return nil
		}
		dec := json.NewDecoder(resp.Body)
		dec.UseNumber()
		return dec.Decode(dst)
	}

	apiErr := &Error{Status: resp.StatusCode}
	raw, _ := io.ReadAll(resp.Body)

	// Deux formats d'erreur possibles : {"detail": "..."} ou
	// {"champ": ["msg", ...]} — on tente les deux
	var withDetail struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &withDetail); err == nil && withDetail.Detail != "" {
		apiErr.Detail = withDetail.Detail
		return apiErr
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err == nil {
		apiErr.Fields = map[string][]string{}
		for field, msg := range fields {
			var list []string
			if err := json.Unmarshal(msg, &list); err == nil {
				apiErr.Fields[field] = list
				continue
			}
			var single string
			if err := json.Unmarshal(msg, &single); err == nil {
				apiErr.Fields[field] = []string{single}
			}
		}
	}
	return apiErr
}

func gatewayGet(noRedirect bool) gateway.Opts {
	return gateway.Opts{NoAuthRedirect: noRedirect}
}

func gatewayPost(payload interface{}, noRedirect bool) gateway.Opts {
	opts := gateway.Opts{Method: http.MethodPost, NoAuthRedirect: noRedirect}
	if payload != nil {
		opts.Body = jsonBody(payload)
	}
	return opts
}

func gatewayJSON(method string, payload interface{}) gateway.Opts {
	opts := gateway.Opts{Method: method}
	if payload != nil {
		opts.Body = jsonBody(payload)
	}
	return opts
}

// jsonBody sérialise un payload pour un verbe mutateur
func jsonBody(payload interface{}) io.Reader {
	data, err := json.Marshal(payload)
	if err != nil {
		return strings.NewReader("{}")
	}
	return bytes.NewReader(data)
}
