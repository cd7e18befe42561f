//go:build integration

package e2e

// End-to-end integration tests against real Postgres + Redis via
// testcontainers. Run with: go test -tags integration ./tests/e2e/... -v
//
// Covered flows:
//   - Full assembly cycle: catalog → formula → restock → shift → armado → sale
//   - Stock conflict: an oversized cart is rejected whole
//   - One open turno per employee
//   - Delivery sales carry no amount or payment method

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Shoelmaxi/floreria-web/internal/config"
	"github.com/Shoelmaxi/floreria-web/internal/infra"
	"github.com/Shoelmaxi/floreria-web/internal/router"
	"github.com/Shoelmaxi/floreria-web/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("floreria_test"),
		tcPostgres.WithUsername("floreria"),
		tcPostgres.WithPassword("floreria"),
		testcontainers.WithWaitStrategy(
			tcPostgres.BasicWaitStrategies()...,
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	// Seed admin user
	hash, err := bcrypt.GenerateFromPassword([]byte("floreria2026"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Exec(`INSERT INTO usuarios (id, nombre, email, password_hash, rol, activo, created_at)
		VALUES (gen_random_uuid(), 'Admin E2E', 'admin@e2e.test', ?, 'admin', true, NOW())
		ON CONFLICT DO NOTHING`, string(hash)).Error)

	r := router.New(cfg, db, rdb, worker.NewDispatcher(rdb))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"email": "admin@e2e.test", "password": "floreria2026"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken}
}

func crearProducto(t *testing.T, env *testEnv, nombre, tipo string, stock, minimo int) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/productos",
		jsonBody(t, map[string]any{
			"nombre": nombre, "tipo": tipo, "stock": stock, "stock_minimo": minimo,
		}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &prod)
	return prod.ID
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_CicloCompletoArmadoYVenta(t *testing.T) {
	env := setupTestEnv(t)

	// 1. Catalog: one bouquet base and its two flowers.
	ramoID := crearProducto(t, env, "Ramo primaveral", "ramo_base", 0, 1)
	rosasID := crearProducto(t, env, "Rosa roja", "flor", 0, 5)
	liriosID := crearProducto(t, env, "Lirio blanco", "flor", 0, 5)

	// 2. Formula: 12 rosas + 4 lirios.
	for flor, cantidad := range map[string]int{rosasID: 12, liriosID: 4} {
		resp := do(t, env.server, "POST", "/v1/formulas",
			jsonBody(t, map[string]any{"ramo_id": ramoID, "flor_id": flor, "cantidad": cantidad}),
			env.token)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	// 3. Restock the flowers.
	for _, flor := range []string{rosasID, liriosID} {
		resp := do(t, env.server, "POST", "/v1/inventario/abastecimiento",
			jsonBody(t, map[string]any{"producto_id": flor, "cantidad": 30}),
			env.token)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	// 4. Open a shift.
	turnoResp := do(t, env.server, "POST", "/v1/turnos/abrir", nil, env.token)
	require.Equal(t, http.StatusCreated, turnoResp.StatusCode)
	var turno struct {
		ID string `json:"id"`
	}
	decodeJSON(t, turnoResp, &turno)

	// 5. Assemble: fewer roses, more lilies than standard.
	armadoResp := do(t, env.server, "POST", "/v1/armados",
		jsonBody(t, map[string]any{
			"ramo_id":  ramoID,
			"turno_id": turno.ID,
			"flores_usadas": []map[string]any{
				{"flor_id": rosasID, "cantidad": 10},
				{"flor_id": liriosID, "cantidad": 6},
			},
		}), env.token)
	require.Equal(t, http.StatusCreated, armadoResp.StatusCode)
	var armado struct {
		RamoStock int `json:"ramo_stock"`
		Variacion map[string]struct {
			Estandar   int `json:"estandar"`
			Usado      int `json:"usado"`
			Diferencia int `json:"diferencia"`
		} `json:"variacion_formula"`
	}
	decodeJSON(t, armadoResp, &armado)
	assert.Equal(t, 1, armado.RamoStock)
	assert.Equal(t, -2, armado.Variacion[rosasID].Diferencia)
	assert.Equal(t, 2, armado.Variacion[liriosID].Diferencia)

	// 6. Sell the bouquet in-store.
	ventaResp := do(t, env.server, "POST", "/v1/ventas",
		jsonBody(t, map[string]any{
			"items":       []map[string]any{{"producto_id": ramoID, "cantidad": 1}},
			"monto_total": "15000.00",
			"metodo_pago": "efectivo",
			"turno_id":    turno.ID,
		}), env.token)
	require.Equal(t, http.StatusCreated, ventaResp.StatusCode)
	var venta struct {
		Items []struct {
			StockRestante int `json:"stock_restante"`
		} `json:"items"`
	}
	decodeJSON(t, ventaResp, &venta)
	require.Len(t, venta.Items, 1)
	assert.Equal(t, 0, venta.Items[0].StockRestante)

	// 7. The ledger shows the full chain for the roses:
	//    abastecimiento +30, consumo_armado -10.
	movResp := do(t, env.server, "GET", fmt.Sprintf("/v1/inventario/movimientos?producto_id=%s", rosasID), nil, env.token)
	require.Equal(t, http.StatusOK, movResp.StatusCode)
	var movs struct {
		Data []struct {
			Tipo       string `json:"tipo"`
			Cantidad   int    `json:"cantidad"`
			StockNuevo int    `json:"stock_nuevo"`
		} `json:"data"`
		Total int64 `json:"total"`
	}
	decodeJSON(t, movResp, &movs)
	assert.Equal(t, int64(2), movs.Total)

	// 8. Close the shift.
	cerrarResp := do(t, env.server, "POST", fmt.Sprintf("/v1/turnos/%s/cerrar", turno.ID),
		jsonBody(t, map[string]any{"notas": "cierre e2e"}), env.token)
	require.Equal(t, http.StatusOK, cerrarResp.StatusCode)
}

func TestE2E_VentaConStockInsuficiente(t *testing.T) {
	env := setupTestEnv(t)

	rosasID := crearProducto(t, env, "Rosa roja", "flor", 5, 2)
	cintaID := crearProducto(t, env, "Cinta decorativa", "accesorio", 50, 5)

	// The second line exceeds stock: the whole cart must be rejected.
	resp := do(t, env.server, "POST", "/v1/ventas",
		jsonBody(t, map[string]any{
			"items": []map[string]any{
				{"producto_id": cintaID, "cantidad": 2},
				{"producto_id": rosasID, "cantidad": 10},
			},
			"monto_total": "5000",
			"metodo_pago": "debito",
		}), env.token)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	var apiErr struct {
		Code string `json:"code"`
	}
	decodeJSON(t, resp, &apiErr)
	assert.Equal(t, "stock_insuficiente", apiErr.Code)

	// Neither line moved.
	prodResp := do(t, env.server, "GET", "/v1/productos/"+cintaID, nil, env.token)
	require.Equal(t, http.StatusOK, prodResp.StatusCode)
	var prod struct {
		Stock int `json:"stock"`
	}
	decodeJSON(t, prodResp, &prod)
	assert.Equal(t, 50, prod.Stock)
}

func TestE2E_UnSoloTurnoAbierto(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "POST", "/v1/turnos/abrir", nil, env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = do(t, env.server, "POST", "/v1/turnos/abrir", nil, env.token)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	var apiErr struct {
		Code string `json:"code"`
	}
	decodeJSON(t, resp, &apiErr)
	assert.Equal(t, "turno_ya_abierto", apiErr.Code)

	actual := do(t, env.server, "GET", "/v1/turnos/actual", nil, env.token)
	require.Equal(t, http.StatusOK, actual.StatusCode)
	var turno struct {
		Estado       string `json:"estado"`
		Transcurrido string `json:"transcurrido"`
	}
	decodeJSON(t, actual, &turno)
	assert.Equal(t, "abierto", turno.Estado)
}

func TestE2E_VentaDelivery(t *testing.T) {
	env := setupTestEnv(t)

	ramoID := crearProducto(t, env, "Ramo listo", "ramo_base", 3, 1)

	// Amount and method are sent but must come back nil.
	resp := do(t, env.server, "POST", "/v1/ventas",
		jsonBody(t, map[string]any{
			"items":       []map[string]any{{"producto_id": ramoID, "cantidad": 1}},
			"monto_total": "9999",
			"metodo_pago": "efectivo",
			"es_delivery": true,
		}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var venta struct {
		EsDelivery bool    `json:"es_delivery"`
		MontoTotal *string `json:"monto_total"`
		MetodoPago *string `json:"metodo_pago"`
	}
	decodeJSON(t, resp, &venta)
	assert.True(t, venta.EsDelivery)
	assert.Nil(t, venta.MontoTotal)
	assert.Nil(t, venta.MetodoPago)
}
