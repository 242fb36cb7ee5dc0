package patches

import (
	"context"
	"fmt"
	"net/netip"
	"strings"

	"github.com/syssam/plandb/dialect/sql"
	"github.com/syssam/plandb/migrate"
	"github.com/syssam/plandb/tables"
)

// anonymizedMarker is contained in every anonymized address.
const anonymizedMarker = "xx"

// AnonymizeIP masks the host part of an address: 1.2.3.4 becomes 1.2.3.xx
// and 2001:db8:85a3::8a2e:370:7334 becomes 2001:db8:85a3:xx.. . Values that
// are already anonymized are returned as is; values that are not addresses
// are fully masked.
func AnonymizeIP(ip string) string {
	if strings.Contains(ip, anonymizedMarker) {
		return ip
	}
	addr, err := netip.ParseAddr(strings.TrimSpace(ip))
	if err != nil {
		return "xx.xx.xx.xx"
	}
	addr = addr.Unmap()
	if addr.Is4() {
		b := addr.As4()
		return fmt.Sprintf("%d.%d.%d.xx", b[0], b[1], b[2])
	}
	b := addr.As16()
	return fmt.Sprintf("%x:%x:%x:xx..",
		uint16(b[0])<<8|uint16(b[1]),
		uint16(b[2])<<8|uint16(b[3]),
		uint16(b[4])<<8|uint16(b[5]),
	)
}

// ipAnonymization rewrites stored addresses to their anonymized form and
// removes the duplicates this creates.
type ipAnonymization struct{}

func (ipAnonymization) Name() string { return "ip_anonymization" }

func (ipAnonymization) IsApplied(ctx context.Context, env *migrate.Env) (bool, error) {
	n, err := count(ctx, env, notAnonymized("COUNT(1)"))
	if err != nil || n > 0 {
		return false, err
	}
	// Rows may be anonymized while their duplicates are still present.
	dup := sql.Select(tables.IPs, "1").GroupBy(tables.IPsUserID, tables.IPsIP).Having("COUNT(1)>1")
	n, err = count(ctx, env, sql.Select("("+dup.String()+") AS dup", "COUNT(1)").Statement())
	return n == 0, err
}

func (ipAnonymization) Apply(ctx context.Context, env *migrate.Env) error {
	type row struct {
		id int64
		ip string
	}
	rows, err := sql.QueryAll(ctx, env.Driver, notAnonymized(tables.IPsID, tables.IPsIP), func(s sql.Scanner) (r row, err error) {
		err = s.Scan(&r.id, &r.ip)
		return r, err
	})
	if err != nil {
		return err
	}
	b := sql.NewBatch(sql.Update(tables.IPs, tables.IPsIP).Where(tables.IPsID + "=?").String())
	for _, r := range rows {
		b.Add(AnonymizeIP(r.ip), r.id)
	}
	env.Log.InfoContext(ctx, "anonymizing ip addresses", "rows", b.Len())
	return env.Driver.Transaction(ctx, func(tx *sql.Tx) error {
		if err := tx.ExecuteBatch(ctx, b); err != nil {
			return err
		}
		_, err := tx.Execute(ctx, collapseDuplicateIPs())
		return err
	})
}

// collapseDuplicateIPs keeps the newest row of every user and address pair.
// The extra derived table lets MySQL select from the table it deletes from.
func collapseDuplicateIPs() sql.Statement {
	latest := sql.Select(tables.IPs, "MAX("+tables.IPsID+") AS "+tables.IPsID).GroupBy(tables.IPsUserID, tables.IPsIP)
	return sql.Delete(tables.IPs).
		Where(tables.IPsID + " NOT IN (SELECT " + tables.IPsID + " FROM (" + latest.String() + ") AS latest)").
		Statement()
}

func notAnonymized(columns ...string) sql.Statement {
	return sql.Select(tables.IPs, columns...).Where(tables.IPsIP + " NOT LIKE ?").Statement("%" + anonymizedMarker + "%")
}
