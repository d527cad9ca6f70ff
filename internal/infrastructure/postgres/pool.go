package postgres

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/gacha-api/pkg/config"
)

// NewPool crea un pool PostgreSQL para el driver "postgres" del almacenamiento local.
// El kiosco hace pocas escrituras, así que el pool es pequeño.
func NewPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	// Preferir IPv4 en el dial: dentro de Docker no suele haber IPv6.
	poolConfig.ConnConfig.DialFunc = func(ctx context.Context, network, addr string) (net.Conn, error) {
		dialer := &net.Dialer{Timeout: 5 * time.Second}
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, err
		}
		if ipv4, err := resolveIPv4(ctx, host); err == nil {
			return dialer.DialContext(ctx, "tcp4", net.JoinHostPort(ipv4, port))
		}
		return dialer.DialContext(ctx, network, addr)
	}

	poolConfig.MaxConns = 4
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	return pool, nil
}

// resolveIPv4 devuelve la primera IPv4 de host (o host si ya es una IPv4).
func resolveIPv4(ctx context.Context, host string) (string, error) {
	if ip := net.ParseIP(host); ip != nil {
		if ip.To4() != nil {
			return host, nil
		}
		return "", fmt.Errorf("es IPv6")
	}
	ips, err := net.DefaultResolver.LookupIP(ctx, "ip4", host)
	if err != nil {
		return "", err
	}
	if len(ips) == 0 {
		return "", fmt.Errorf("no hay IPv4")
	}
	return ips[0].String(), nil
}
