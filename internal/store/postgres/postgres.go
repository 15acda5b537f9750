package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"

	"shilohridge/backend/internal/domain"
	"shilohridge/backend/internal/store"
)

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id text PRIMARY KEY,
		name text NOT NULL,
		description text NOT NULL DEFAULT '',
		category text NOT NULL,
		price_per_unit numeric,
		unit text NOT NULL DEFAULT '',
		cuts jsonb,
		available boolean NOT NULL DEFAULT true,
		min_order integer NOT NULL DEFAULT 0,
		max_order integer NOT NULL DEFAULT 0,
		image_url text,
		created_at timestamptz NOT NULL,
		updated_at timestamptz NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id text PRIMARY KEY,
		customer_name text NOT NULL,
		customer_email text NOT NULL,
		customer_phone text NOT NULL,
		address text,
		items jsonb,
		total_amount numeric NOT NULL,
		status text NOT NULL,
		notes text,
		created_at timestamptz NOT NULL,
		updated_at timestamptz NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id text PRIMARY KEY,
		name text NOT NULL,
		email text NOT NULL,
		phone text NOT NULL DEFAULT '',
		address text NOT NULL DEFAULT '',
		customer_type text NOT NULL,
		notes text,
		created_at timestamptz NOT NULL,
		updated_at timestamptz NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sales (
		id text PRIMARY KEY,
		invoice_id text NOT NULL,
		sale_date text NOT NULL,
		customer_id text NOT NULL,
		customer_info jsonb,
		sale_type text NOT NULL,
		items jsonb,
		subtotal numeric NOT NULL,
		tax_amount numeric NOT NULL,
		discount_amount numeric NOT NULL,
		total_amount numeric NOT NULL,
		payment_method text NOT NULL,
		payment_status text NOT NULL,
		delivery_status text NOT NULL,
		notes text,
		created_at timestamptz NOT NULL,
		updated_at timestamptz NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS inventory_items (
		id text PRIMARY KEY,
		animal_id text NOT NULL UNIQUE,
		animal_type text NOT NULL,
		breed text NOT NULL DEFAULT '',
		bloodline text NOT NULL DEFAULT '',
		sex text NOT NULL DEFAULT '',
		birth_type text NOT NULL DEFAULT '',
		date_of_birth text NOT NULL DEFAULT '',
		registration_number text,
		sire_name text,
		sire_tag text,
		dam_name text,
		dam_tag text,
		current_weight numeric,
		weight_unit text NOT NULL DEFAULT '',
		status text NOT NULL,
		health_records jsonb,
		sale_price numeric,
		estimated_value numeric,
		blockchain_id text,
		location text,
		notes text,
		photos jsonb,
		created_at timestamptz NOT NULL,
		updated_at timestamptz NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS expenses (
		id text PRIMARY KEY,
		category text NOT NULL,
		subcategory text,
		description text NOT NULL,
		amount numeric NOT NULL,
		date text NOT NULL,
		vendor_supplier text,
		payment_method text NOT NULL,
		payment_status text NOT NULL,
		is_recurring boolean NOT NULL DEFAULT false,
		recurring_frequency text,
		next_due_date text,
		reference_id text,
		reference_type text,
		tax_deductible boolean NOT NULL DEFAULT false,
		notes text,
		receipts jsonb,
		created_at timestamptz NOT NULL,
		updated_at timestamptz NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS revenue_entries (
		id text PRIMARY KEY,
		type text NOT NULL,
		description text NOT NULL,
		amount numeric NOT NULL,
		date text NOT NULL,
		source text,
		payment_method text NOT NULL,
		payment_status text NOT NULL,
		reference_id text,
		reference_type text,
		tax_category text,
		notes text,
		created_at timestamptz NOT NULL,
		updated_at timestamptz NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS livestock (
		id text PRIMARY KEY,
		name text NOT NULL,
		type text NOT NULL,
		breed text NOT NULL DEFAULT '',
		description text NOT NULL DEFAULT '',
		date_of_birth text,
		weight numeric,
		price numeric,
		available boolean NOT NULL DEFAULT true,
		image_url text,
		tag_number text,
		registration_number text,
		sire text,
		dam text,
		birth_type text,
		sex text,
		blood_percentage numeric,
		coat_type text,
		parents_registered boolean NOT NULL DEFAULT false,
		inspected boolean NOT NULL DEFAULT false,
		transfer_info jsonb,
		created_at timestamptz NOT NULL,
		updated_at timestamptz NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS documents (
		id text PRIMARY KEY,
		title text NOT NULL,
		filename text NOT NULL,
		description text,
		category text NOT NULL,
		file_path text NOT NULL,
		file_size bigint NOT NULL DEFAULT 0,
		mime_type text NOT NULL DEFAULT '',
		is_public boolean NOT NULL DEFAULT false,
		uploaded_by text NOT NULL DEFAULT '',
		created_at timestamptz NOT NULL,
		updated_at timestamptz NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS contact_forms (
		id text PRIMARY KEY,
		name text NOT NULL,
		email text NOT NULL,
		phone text,
		subject text NOT NULL,
		message text NOT NULL,
		read boolean NOT NULL DEFAULT false,
		created_at timestamptz NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS site_about (
		id integer PRIMARY KEY,
		title text NOT NULL,
		body text NOT NULL,
		mission text,
		image_url text,
		updated_at timestamptz NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS site_settings (
		id integer PRIMARY KEY,
		farm_name text NOT NULL,
		contact_email text,
		contact_phone text,
		address text,
		social_links jsonb,
		updated_at timestamptz NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS blog_posts (
		id text PRIMARY KEY,
		title text NOT NULL,
		body text NOT NULL,
		author text NOT NULL,
		published boolean NOT NULL DEFAULT false,
		image_url text,
		created_at timestamptz NOT NULL,
		updated_at timestamptz NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS nft_records (
		id text PRIMARY KEY,
		inventory_id text NOT NULL,
		token_id text NOT NULL,
		chain text NOT NULL,
		metadata_url text,
		notes text,
		created_at timestamptz NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		username text PRIMARY KEY,
		password_hash text NOT NULL,
		role text NOT NULL,
		active boolean NOT NULL DEFAULT true,
		created_at timestamptz NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS audit_logs (
		id text PRIMARY KEY,
		actor_username text NOT NULL,
		actor_role text NOT NULL,
		action text NOT NULL,
		entity_type text NOT NULL,
		entity_id text NOT NULL,
		detail text,
		created_at timestamptz NOT NULL
	)`,
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ListProducts(ctx context.Context, includeUnavailable bool) ([]domain.Product, error) {
	query := `
		SELECT id, name, description, category, price_per_unit, unit, cuts, available, min_order, max_order, image_url, created_at, updated_at
		FROM products
		ORDER BY category, name
	`
	if !includeUnavailable {
		query = `
			SELECT id, name, description, category, price_per_unit, unit, cuts, available, min_order, max_order, image_url, created_at, updated_at
			FROM products
			WHERE available = true
			ORDER BY category, name
		`
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0, 64)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var (
		p        domain.Product
		price    decimal.NullDecimal
		cutsJSON []byte
		imageURL sql.NullString
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &price, &p.Unit,
		&cutsJSON, &p.Available, &p.MinOrder, &p.MaxOrder, &imageURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if price.Valid {
		v := price.Decimal
		p.PricePerUnit = &v
	}
	if len(cutsJSON) > 0 {
		if err := json.Unmarshal(cutsJSON, &p.Cuts); err != nil {
			return nil, err
		}
	}
	p.ImageURL = imageURL.String
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}

func (s *Store) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, category, price_per_unit, unit, cuts, available, min_order, max_order, image_url, created_at, updated_at
		FROM products
		WHERE id = $1
	`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Store) CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	cutsJSON, err := marshalOrNil(product.Cuts, len(product.Cuts) > 0)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO products (id, name, description, category, price_per_unit, unit, cuts, available, min_order, max_order, image_url, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`, product.ID, product.Name, product.Description, product.Category, nullDecimal(product.PricePerUnit),
		product.Unit, cutsJSON, product.Available, product.MinOrder, product.MaxOrder,
		nullIfEmpty(product.ImageURL), product.CreatedAt, product.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}

	created := product
	return &created, nil
}

func (s *Store) UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	cutsJSON, err := marshalOrNil(product.Cuts, len(product.Cuts) > 0)
	if err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET name = $2, description = $3, category = $4, price_per_unit = $5, unit = $6, cuts = $7,
		    available = $8, min_order = $9, max_order = $10, image_url = $11, updated_at = $12
		WHERE id = $1
	`, product.ID, product.Name, product.Description, product.Category, nullDecimal(product.PricePerUnit),
		product.Unit, cutsJSON, product.Available, product.MinOrder, product.MaxOrder,
		nullIfEmpty(product.ImageURL), product.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}

	updated := product
	return &updated, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *Store) CreateOrder(ctx context.Context, order domain.Order) (*domain.Order, error) {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO orders (id, customer_name, customer_email, customer_phone, address, items, total_amount, status, notes, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`, order.ID, order.CustomerName, order.CustomerEmail, order.CustomerPhone, nullIfEmpty(order.Address),
		itemsJSON, order.TotalAmount, order.Status, nullIfEmpty(order.Notes), order.CreatedAt, order.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}

	created := order
	return &created, nil
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		o         domain.Order
		address   sql.NullString
		itemsJSON []byte
		notes     sql.NullString
	)
	err := row.Scan(&o.ID, &o.CustomerName, &o.CustomerEmail, &o.CustomerPhone, &address,
		&itemsJSON, &o.TotalAmount, &o.Status, &notes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
			return nil, err
		}
	}
	o.Address = address.String
	o.Notes = notes.String
	o.CreatedAt = o.CreatedAt.UTC()
	o.UpdatedAt = o.UpdatedAt.UTC()
	return &o, nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, customer_name, customer_email, customer_phone, address, items, total_amount, status, notes, created_at, updated_at
		FROM orders
		WHERE id = $1
	`, id)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func (s *Store) ListOrders(ctx context.Context, status string, limit int) ([]domain.Order, error) {
	if limit < 1 {
		limit = 200
	}

	query := `
		SELECT id, customer_name, customer_email, customer_phone, address, items, total_amount, status, notes, created_at, updated_at
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1
	`
	args := []any{limit}
	if status != "" {
		query = `
			SELECT id, customer_name, customer_email, customer_phone, address, items, total_amount, status, notes, created_at, updated_at
			FROM orders
			WHERE status = $2
			ORDER BY created_at DESC
			LIMIT $1
		`
		args = append(args, status)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]domain.Order, 0, limit)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id string, status string) (*domain.Order, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE orders SET status = $2, updated_at = now() WHERE id = $1
	`, id, status)
	if err != nil {
		return nil, err
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}
	return s.GetOrder(ctx, id)
}

func (s *Store) CreateCustomer(ctx context.Context, customer domain.Customer) (*domain.Customer, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO customers (id, name, email, phone, address, customer_type, notes, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, customer.ID, customer.Name, customer.Email, customer.Phone, customer.Address,
		customer.CustomerType, nullIfEmpty(customer.Notes), customer.CreatedAt, customer.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}

	created := customer
	return &created, nil
}

func scanCustomer(row rowScanner) (*domain.Customer, error) {
	var (
		c     domain.Customer
		notes sql.NullString
	)
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.CustomerType, &notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Notes = notes.String
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return &c, nil
}

func (s *Store) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, address, customer_type, notes, created_at, updated_at
		FROM customers
		WHERE id = $1
	`, id)
	c, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *Store) ListCustomers(ctx context.Context, customerType string, search string) ([]domain.Customer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, phone, address, customer_type, notes, created_at, updated_at
		FROM customers
		WHERE ($1 = '' OR customer_type = $1)
		  AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR email ILIKE '%' || $2 || '%')
		ORDER BY name
	`, customerType, search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := make([]domain.Customer, 0, 64)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return customers, nil
}

func (s *Store) UpdateCustomer(ctx context.Context, customer domain.Customer) (*domain.Customer, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE customers
		SET name = $2, email = $3, phone = $4, address = $5, customer_type = $6, notes = $7, updated_at = $8
		WHERE id = $1
	`, customer.ID, customer.Name, customer.Email, customer.Phone, customer.Address,
		customer.CustomerType, nullIfEmpty(customer.Notes), customer.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}

	updated := customer
	return &updated, nil
}

func (s *Store) DeleteCustomer(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *Store) CreateSale(ctx context.Context, sale domain.SaleRecord) (*domain.SaleRecord, error) {
	itemsJSON, err := json.Marshal(sale.Items)
	if err != nil {
		return nil, err
	}
	customerJSON, err := json.Marshal(sale.CustomerInfo)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sales (id, invoice_id, sale_date, customer_id, customer_info, sale_type, items, subtotal, tax_amount, discount_amount, total_amount, payment_method, payment_status, delivery_status, notes, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
	`, sale.ID, sale.InvoiceID, sale.SaleDate, sale.CustomerID, customerJSON, sale.SaleType, itemsJSON,
		sale.Subtotal, sale.TaxAmount, sale.DiscountAmount, sale.TotalAmount,
		sale.PaymentMethod, sale.PaymentStatus, sale.DeliveryStatus, nullIfEmpty(sale.Notes),
		sale.CreatedAt, sale.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}

	created := sale
	return &created, nil
}

func scanSale(row rowScanner) (*domain.SaleRecord, error) {
	var (
		sale         domain.SaleRecord
		customerJSON []byte
		itemsJSON    []byte
		notes        sql.NullString
	)
	err := row.Scan(&sale.ID, &sale.InvoiceID, &sale.SaleDate, &sale.CustomerID, &customerJSON,
		&sale.SaleType, &itemsJSON, &sale.Subtotal, &sale.TaxAmount, &sale.DiscountAmount,
		&sale.TotalAmount, &sale.PaymentMethod, &sale.PaymentStatus, &sale.DeliveryStatus,
		&notes, &sale.CreatedAt, &sale.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(customerJSON) > 0 {
		if err := json.Unmarshal(customerJSON, &sale.CustomerInfo); err != nil {
			return nil, err
		}
	}
	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &sale.Items); err != nil {
			return nil, err
		}
	}
	sale.Notes = notes.String
	sale.CreatedAt = sale.CreatedAt.UTC()
	sale.UpdatedAt = sale.UpdatedAt.UTC()
	return &sale, nil
}

const saleColumns = `id, invoice_id, sale_date, customer_id, customer_info, sale_type, items, subtotal, tax_amount, discount_amount, total_amount, payment_method, payment_status, delivery_status, notes, created_at, updated_at`

func (s *Store) GetSale(ctx context.Context, id string) (*domain.SaleRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
	sale, err := scanSale(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return sale, nil
}

func (s *Store) ListSales(ctx context.Context, filter domain.SaleFilter) ([]domain.SaleRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+saleColumns+`
		FROM sales
		WHERE ($1 = '' OR payment_status = $1)
		  AND ($2 = '' OR customer_id = $2)
		  AND ($3 = '' OR sale_date >= $3)
		  AND ($4 = '' OR sale_date <= $4)
		ORDER BY sale_date DESC, invoice_id DESC
	`, filter.PaymentStatus, filter.CustomerID, filter.FromDate, filter.ToDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sales := make([]domain.SaleRecord, 0, 64)
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, *sale)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sales, nil
}

func (s *Store) UpdateSaleStatus(ctx context.Context, id string, paymentStatus *string, deliveryStatus *string) (*domain.SaleRecord, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE sales
		SET payment_status = COALESCE($2, payment_status),
		    delivery_status = COALESCE($3, delivery_status),
		    updated_at = now()
		WHERE id = $1
	`, id, paymentStatus, deliveryStatus)
	if err != nil {
		return nil, err
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}
	return s.GetSale(ctx, id)
}

func (s *Store) DeleteSale(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

const inventoryColumns = `id, animal_id, animal_type, breed, bloodline, sex, birth_type, date_of_birth, registration_number, sire_name, sire_tag, dam_name, dam_tag, current_weight, weight_unit, status, health_records, sale_price, estimated_value, blockchain_id, location, notes, photos, created_at, updated_at`

func (s *Store) CreateInventoryItem(ctx context.Context, item domain.InventoryItem) (*domain.InventoryItem, error) {
	healthJSON, err := json.Marshal(item.HealthRecords)
	if err != nil {
		return nil, err
	}
	photosJSON, err := json.Marshal(item.Photos)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO inventory_items (`+inventoryColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25)
	`, item.ID, item.AnimalID, item.AnimalType, item.Breed, item.Bloodline, item.Sex, item.BirthType,
		item.DateOfBirth, nullIfEmpty(item.RegistrationNumber), nullIfEmpty(item.SireName), nullIfEmpty(item.SireTag),
		nullIfEmpty(item.DamName), nullIfEmpty(item.DamTag), nullDecimal(item.CurrentWeight), item.WeightUnit,
		item.Status, healthJSON, nullDecimal(item.SalePrice), nullDecimal(item.EstimatedValue),
		nullIfEmpty(item.BlockchainID), nullIfEmpty(item.Location), nullIfEmpty(item.Notes), photosJSON,
		item.CreatedAt, item.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}

	created := item
	return &created, nil
}

func scanInventoryItem(row rowScanner) (*domain.InventoryItem, error) {
	var (
		it                                         domain.InventoryItem
		regNum, sireName, sireTag, damName, damTag sql.NullString
		blockchainID, location, notes              sql.NullString
		currentWeight, salePrice, estimatedValue   decimal.NullDecimal
		healthJSON, photosJSON                     []byte
	)
	err := row.Scan(&it.ID, &it.AnimalID, &it.AnimalType, &it.Breed, &it.Bloodline, &it.Sex, &it.BirthType,
		&it.DateOfBirth, &regNum, &sireName, &sireTag, &damName, &damTag, &currentWeight, &it.WeightUnit,
		&it.Status, &healthJSON, &salePrice, &estimatedValue, &blockchainID, &location, &notes, &photosJSON,
		&it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	it.RegistrationNumber = regNum.String
	it.SireName = sireName.String
	it.SireTag = sireTag.String
	it.DamName = damName.String
	it.DamTag = damTag.String
	it.BlockchainID = blockchainID.String
	it.Location = location.String
	it.Notes = notes.String
	if currentWeight.Valid {
		v := currentWeight.Decimal
		it.CurrentWeight = &v
	}
	if salePrice.Valid {
		v := salePrice.Decimal
		it.SalePrice = &v
	}
	if estimatedValue.Valid {
		v := estimatedValue.Decimal
		it.EstimatedValue = &v
	}
	if len(healthJSON) > 0 {
		if err := json.Unmarshal(healthJSON, &it.HealthRecords); err != nil {
			return nil, err
		}
	}
	if len(photosJSON) > 0 {
		if err := json.Unmarshal(photosJSON, &it.Photos); err != nil {
			return nil, err
		}
	}
	it.CreatedAt = it.CreatedAt.UTC()
	it.UpdatedAt = it.UpdatedAt.UTC()
	return &it, nil
}

func (s *Store) GetInventoryItem(ctx context.Context, id string) (*domain.InventoryItem, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+inventoryColumns+` FROM inventory_items WHERE id = $1`, id)
	item, err := scanInventoryItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

func (s *Store) GetInventoryItemByAnimalID(ctx context.Context, animalID string) (*domain.InventoryItem, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+inventoryColumns+` FROM inventory_items WHERE animal_id = $1`, animalID)
	item, err := scanInventoryItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

func (s *Store) ListInventory(ctx context.Context, filter domain.InventoryFilter) ([]domain.InventoryItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+inventoryColumns+`
		FROM inventory_items
		WHERE ($1 = '' OR animal_type = $1)
		  AND ($2 = '' OR status = $2)
		  AND ($3 = '' OR breed ILIKE $3)
		  AND ($4::numeric IS NULL OR current_weight >= $4)
		  AND ($5::numeric IS NULL OR current_weight <= $5)
		ORDER BY animal_type, animal_id
	`, filter.AnimalType, filter.Status, filter.Breed, nullDecimal(filter.MinWeight), nullDecimal(filter.MaxWeight))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.InventoryItem, 0, 64)
	for rows.Next() {
		item, err := scanInventoryItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) UpdateInventoryItem(ctx context.Context, item domain.InventoryItem) (*domain.InventoryItem, error) {
	healthJSON, err := json.Marshal(item.HealthRecords)
	if err != nil {
		return nil, err
	}
	photosJSON, err := json.Marshal(item.Photos)
	if err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE inventory_items
		SET animal_id = $2, animal_type = $3, breed = $4, bloodline = $5, sex = $6, birth_type = $7,
		    date_of_birth = $8, registration_number = $9, sire_name = $10, sire_tag = $11, dam_name = $12,
		    dam_tag = $13, current_weight = $14, weight_unit = $15, status = $16, health_records = $17,
		    sale_price = $18, estimated_value = $19, blockchain_id = $20, location = $21, notes = $22,
		    photos = $23, updated_at = $24
		WHERE id = $1
	`, item.ID, item.AnimalID, item.AnimalType, item.Breed, item.Bloodline, item.Sex, item.BirthType,
		item.DateOfBirth, nullIfEmpty(item.RegistrationNumber), nullIfEmpty(item.SireName), nullIfEmpty(item.SireTag),
		nullIfEmpty(item.DamName), nullIfEmpty(item.DamTag), nullDecimal(item.CurrentWeight), item.WeightUnit,
		item.Status, healthJSON, nullDecimal(item.SalePrice), nullDecimal(item.EstimatedValue),
		nullIfEmpty(item.BlockchainID), nullIfEmpty(item.Location), nullIfEmpty(item.Notes), photosJSON,
		item.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}

	updated := item
	return &updated, nil
}

func (s *Store) DeleteInventoryItem(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM inventory_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *Store) SetInventoryStatus(ctx context.Context, id string, status string) (*domain.InventoryItem, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE inventory_items SET status = $2, updated_at = now() WHERE id = $1
	`, id, status)
	if err != nil {
		return nil, err
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}
	return s.GetInventoryItem(ctx, id)
}

// MarkInventorySold uses a conditional update so two settlements racing on
// the same animal cannot both win.
func (s *Store) MarkInventorySold(ctx context.Context, id string, salePrice decimal.Decimal) (*domain.InventoryItem, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE inventory_items
		SET status = $2, sale_price = $3, updated_at = now()
		WHERE id = $1 AND status <> $2
	`, id, domain.InventoryStatusSold, salePrice)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		if _, lookupErr := s.GetInventoryItem(ctx, id); lookupErr != nil {
			return nil, lookupErr
		}
		return nil, store.ErrConflict
	}
	return s.GetInventoryItem(ctx, id)
}

func (s *Store) AddHealthRecord(ctx context.Context, itemID string, record domain.HealthRecord) error {
	recordJSON, err := json.Marshal(record)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE inventory_items
		SET health_records = COALESCE(health_records, '[]'::jsonb) || $2::jsonb, updated_at = now()
		WHERE id = $1
	`, itemID, recordJSON)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

const expenseColumns = `id, category, subcategory, description, amount, date, vendor_supplier, payment_method, payment_status, is_recurring, recurring_frequency, next_due_date, reference_id, reference_type, tax_deductible, notes, receipts, created_at, updated_at`

func (s *Store) CreateExpense(ctx context.Context, expense domain.Expense) (*domain.Expense, error) {
	receiptsJSON, err := json.Marshal(expense.Receipts)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO expenses (`+expenseColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
	`, expense.ID, expense.Category, nullIfEmpty(expense.Subcategory), expense.Description, expense.Amount,
		expense.Date, nullIfEmpty(expense.VendorSupplier), expense.PaymentMethod, expense.PaymentStatus,
		expense.IsRecurring, nullIfEmpty(expense.RecurringFrequency), nullIfEmpty(expense.NextDueDate),
		nullIfEmpty(expense.ReferenceID), nullIfEmpty(expense.ReferenceType), expense.TaxDeductible,
		nullIfEmpty(expense.Notes), receiptsJSON, expense.CreatedAt, expense.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}

	created := expense
	return &created, nil
}

func scanExpense(row rowScanner) (*domain.Expense, error) {
	var (
		e                                       domain.Expense
		subcategory, vendor, frequency, nextDue sql.NullString
		referenceID, referenceType, notes       sql.NullString
		receiptsJSON                            []byte
	)
	err := row.Scan(&e.ID, &e.Category, &subcategory, &e.Description, &e.Amount, &e.Date, &vendor,
		&e.PaymentMethod, &e.PaymentStatus, &e.IsRecurring, &frequency, &nextDue,
		&referenceID, &referenceType, &e.TaxDeductible, &notes, &receiptsJSON, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.Subcategory = subcategory.String
	e.VendorSupplier = vendor.String
	e.RecurringFrequency = frequency.String
	e.NextDueDate = nextDue.String
	e.ReferenceID = referenceID.String
	e.ReferenceType = referenceType.String
	e.Notes = notes.String
	if len(receiptsJSON) > 0 {
		if err := json.Unmarshal(receiptsJSON, &e.Receipts); err != nil {
			return nil, err
		}
	}
	e.CreatedAt = e.CreatedAt.UTC()
	e.UpdatedAt = e.UpdatedAt.UTC()
	return &e, nil
}

func (s *Store) GetExpense(ctx context.Context, id string) (*domain.Expense, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id)
	expense, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return expense, nil
}

func (s *Store) ListExpenses(ctx context.Context, filter domain.LedgerFilter) ([]domain.Expense, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses
		WHERE ($1 = '' OR category = $1)
		  AND ($2 = '' OR payment_status = $2)
		  AND ($3 = '' OR date >= $3)
		  AND ($4 = '' OR date <= $4)
		ORDER BY date DESC, id DESC
	`, filter.Category, filter.PaymentStatus, filter.FromDate, filter.ToDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := make([]domain.Expense, 0, 64)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return expenses, nil
}

func (s *Store) UpdateExpense(ctx context.Context, expense domain.Expense) (*domain.Expense, error) {
	receiptsJSON, err := json.Marshal(expense.Receipts)
	if err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE expenses
		SET category = $2, subcategory = $3, description = $4, amount = $5, date = $6, vendor_supplier = $7,
		    payment_method = $8, payment_status = $9, is_recurring = $10, recurring_frequency = $11,
		    next_due_date = $12, reference_id = $13, reference_type = $14, tax_deductible = $15,
		    notes = $16, receipts = $17, updated_at = $18
		WHERE id = $1
	`, expense.ID, expense.Category, nullIfEmpty(expense.Subcategory), expense.Description, expense.Amount,
		expense.Date, nullIfEmpty(expense.VendorSupplier), expense.PaymentMethod, expense.PaymentStatus,
		expense.IsRecurring, nullIfEmpty(expense.RecurringFrequency), nullIfEmpty(expense.NextDueDate),
		nullIfEmpty(expense.ReferenceID), nullIfEmpty(expense.ReferenceType), expense.TaxDeductible,
		nullIfEmpty(expense.Notes), receiptsJSON, expense.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}

	updated := expense
	return &updated, nil
}

func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

const revenueColumns = `id, type, description, amount, date, source, payment_method, payment_status, reference_id, reference_type, tax_category, notes, created_at, updated_at`

func (s *Store) CreateRevenue(ctx context.Context, revenue domain.Revenue) (*domain.Revenue, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO revenue_entries (`+revenueColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`, revenue.ID, revenue.Type, revenue.Description, revenue.Amount, revenue.Date,
		nullIfEmpty(revenue.Source), revenue.PaymentMethod, revenue.PaymentStatus,
		nullIfEmpty(revenue.ReferenceID), nullIfEmpty(revenue.ReferenceType), nullIfEmpty(revenue.TaxCategory),
		nullIfEmpty(revenue.Notes), revenue.CreatedAt, revenue.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}

	created := revenue
	return &created, nil
}

func scanRevenue(row rowScanner) (*domain.Revenue, error) {
	var (
		r                                          domain.Revenue
		source, referenceID, referenceType, taxCat sql.NullString
		notes                                      sql.NullString
	)
	err := row.Scan(&r.ID, &r.Type, &r.Description, &r.Amount, &r.Date, &source,
		&r.PaymentMethod, &r.PaymentStatus, &referenceID, &referenceType, &taxCat, &notes,
		&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	r.Source = source.String
	r.ReferenceID = referenceID.String
	r.ReferenceType = referenceType.String
	r.TaxCategory = taxCat.String
	r.Notes = notes.String
	r.CreatedAt = r.CreatedAt.UTC()
	r.UpdatedAt = r.UpdatedAt.UTC()
	return &r, nil
}

func (s *Store) GetRevenue(ctx context.Context, id string) (*domain.Revenue, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+revenueColumns+` FROM revenue_entries WHERE id = $1`, id)
	revenue, err := scanRevenue(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return revenue, nil
}

func (s *Store) ListRevenue(ctx context.Context, filter domain.LedgerFilter) ([]domain.Revenue, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+revenueColumns+`
		FROM revenue_entries
		WHERE ($1 = '' OR type = $1)
		  AND ($2 = '' OR payment_status = $2)
		  AND ($3 = '' OR date >= $3)
		  AND ($4 = '' OR date <= $4)
		ORDER BY date DESC, id DESC
	`, filter.Category, filter.PaymentStatus, filter.FromDate, filter.ToDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	revenues := make([]domain.Revenue, 0, 64)
	for rows.Next() {
		r, err := scanRevenue(rows)
		if err != nil {
			return nil, err
		}
		revenues = append(revenues, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return revenues, nil
}

func (s *Store) UpdateRevenue(ctx context.Context, revenue domain.Revenue) (*domain.Revenue, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE revenue_entries
		SET type = $2, description = $3, amount = $4, date = $5, source = $6, payment_method = $7,
		    payment_status = $8, reference_id = $9, reference_type = $10, tax_category = $11,
		    notes = $12, updated_at = $13
		WHERE id = $1
	`, revenue.ID, revenue.Type, revenue.Description, revenue.Amount, revenue.Date,
		nullIfEmpty(revenue.Source), revenue.PaymentMethod, revenue.PaymentStatus,
		nullIfEmpty(revenue.ReferenceID), nullIfEmpty(revenue.ReferenceType), nullIfEmpty(revenue.TaxCategory),
		nullIfEmpty(revenue.Notes), revenue.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}

	updated := revenue
	return &updated, nil
}

func (s *Store) DeleteRevenue(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM revenue_entries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

const livestockColumns = `id, name, type, breed, description, date_of_birth, weight, price, available, image_url, tag_number, registration_number, sire, dam, birth_type, sex, blood_percentage, coat_type, parents_registered, inspected, transfer_info, created_at, updated_at`

func (s *Store) CreateLivestock(ctx context.Context, animal domain.Livestock) (*domain.Livestock, error) {
	transferJSON, err := marshalOrNil(animal.TransferInfo, animal.TransferInfo != nil)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO livestock (`+livestockColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23)
	`, animal.ID, animal.Name, animal.Type, animal.Breed, animal.Description, nullIfEmpty(animal.DateOfBirth),
		nullDecimal(animal.Weight), nullDecimal(animal.Price), animal.Available, nullIfEmpty(animal.ImageURL),
		nullIfEmpty(animal.TagNumber), nullIfEmpty(animal.RegistrationNumber), nullIfEmpty(animal.Sire),
		nullIfEmpty(animal.Dam), nullIfEmpty(animal.BirthType), nullIfEmpty(animal.Sex),
		nullDecimal(animal.BloodPercentage), nullIfEmpty(animal.CoatType), animal.ParentsRegistered,
		animal.Inspected, transferJSON, animal.CreatedAt, animal.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}

	created := animal
	return &created, nil
}

func scanLivestock(row rowScanner) (*domain.Livestock, error) {
	var (
		a                                   domain.Livestock
		dob, imageURL, tagNumber, regNum    sql.NullString
		sire, dam, birthType, sex, coatType sql.NullString
		weight, price, bloodPct             decimal.NullDecimal
		transferJSON                        []byte
	)
	err := row.Scan(&a.ID, &a.Name, &a.Type, &a.Breed, &a.Description, &dob, &weight, &price,
		&a.Available, &imageURL, &tagNumber, &regNum, &sire, &dam, &birthType, &sex,
		&bloodPct, &coatType, &a.ParentsRegistered, &a.Inspected, &transferJSON, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(transferJSON) > 0 {
		if err := json.Unmarshal(transferJSON, &a.TransferInfo); err != nil {
			return nil, err
		}
	}
	a.DateOfBirth = dob.String
	a.ImageURL = imageURL.String
	a.TagNumber = tagNumber.String
	a.RegistrationNumber = regNum.String
	a.Sire = sire.String
	a.Dam = dam.String
	a.BirthType = birthType.String
	a.Sex = sex.String
	a.CoatType = coatType.String
	if weight.Valid {
		v := weight.Decimal
		a.Weight = &v
	}
	if price.Valid {
		v := price.Decimal
		a.Price = &v
	}
	if bloodPct.Valid {
		v := bloodPct.Decimal
		a.BloodPercentage = &v
	}
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return &a, nil
}

func (s *Store) GetLivestock(ctx context.Context, id string) (*domain.Livestock, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+livestockColumns+` FROM livestock WHERE id = $1`, id)
	animal, err := scanLivestock(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return animal, nil
}

func (s *Store) ListLivestock(ctx context.Context, availableOnly bool) ([]domain.Livestock, error) {
	query := `SELECT ` + livestockColumns + ` FROM livestock ORDER BY type, name`
	if availableOnly {
		query = `SELECT ` + livestockColumns + ` FROM livestock WHERE available = true ORDER BY type, name`
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	animals := make([]domain.Livestock, 0, 32)
	for rows.Next() {
		a, err := scanLivestock(rows)
		if err != nil {
			return nil, err
		}
		animals = append(animals, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return animals, nil
}

func (s *Store) UpdateLivestock(ctx context.Context, animal domain.Livestock) (*domain.Livestock, error) {
	transferJSON, err := marshalOrNil(animal.TransferInfo, animal.TransferInfo != nil)
	if err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE livestock
		SET name = $2, type = $3, breed = $4, description = $5, date_of_birth = $6, weight = $7,
		    price = $8, available = $9, image_url = $10, tag_number = $11, registration_number = $12,
		    sire = $13, dam = $14, birth_type = $15, sex = $16, blood_percentage = $17, coat_type = $18,
		    parents_registered = $19, inspected = $20, transfer_info = $21, updated_at = $22
		WHERE id = $1
	`, animal.ID, animal.Name, animal.Type, animal.Breed, animal.Description, nullIfEmpty(animal.DateOfBirth),
		nullDecimal(animal.Weight), nullDecimal(animal.Price), animal.Available, nullIfEmpty(animal.ImageURL),
		nullIfEmpty(animal.TagNumber), nullIfEmpty(animal.RegistrationNumber), nullIfEmpty(animal.Sire),
		nullIfEmpty(animal.Dam), nullIfEmpty(animal.BirthType), nullIfEmpty(animal.Sex),
		nullDecimal(animal.BloodPercentage), nullIfEmpty(animal.CoatType), animal.ParentsRegistered,
		animal.Inspected, transferJSON, animal.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}

	updated := animal
	return &updated, nil
}

func (s *Store) DeleteLivestock(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM livestock WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *Store) CreateDocument(ctx context.Context, doc domain.Document) (*domain.Document, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, title, filename, description, category, file_path, file_size, mime_type, is_public, uploaded_by, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`, doc.ID, doc.Title, doc.Filename, nullIfEmpty(doc.Description), doc.Category, doc.FilePath,
		doc.FileSize, doc.MimeType, doc.IsPublic, doc.UploadedBy, doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}

	created := doc
	return &created, nil
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var (
		d           domain.Document
		description sql.NullString
	)
	err := row.Scan(&d.ID, &d.Title, &d.Filename, &description, &d.Category, &d.FilePath,
		&d.FileSize, &d.MimeType, &d.IsPublic, &d.UploadedBy, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	d.Description = description.String
	d.CreatedAt = d.CreatedAt.UTC()
	d.UpdatedAt = d.UpdatedAt.UTC()
	return &d, nil
}

func (s *Store) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, filename, description, category, file_path, file_size, mime_type, is_public, uploaded_by, created_at, updated_at
		FROM documents
		WHERE id = $1
	`, id)
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

func (s *Store) ListDocuments(ctx context.Context, category string, publicOnly bool) ([]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, filename, description, category, file_path, file_size, mime_type, is_public, uploaded_by, created_at, updated_at
		FROM documents
		WHERE ($1 = '' OR category = $1)
		  AND ($2 = false OR is_public = true)
		ORDER BY created_at DESC
	`, category, publicOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]domain.Document, 0, 32)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *Store) UpdateDocument(ctx context.Context, doc domain.Document) (*domain.Document, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE documents
		SET title = $2, filename = $3, description = $4, category = $5, file_path = $6, file_size = $7,
		    mime_type = $8, is_public = $9, updated_at = $10
		WHERE id = $1
	`, doc.ID, doc.Title, doc.Filename, nullIfEmpty(doc.Description), doc.Category, doc.FilePath,
		doc.FileSize, doc.MimeType, doc.IsPublic, doc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}

	updated := doc
	return &updated, nil
}

func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *Store) CreateContactForm(ctx context.Context, form domain.ContactForm) (*domain.ContactForm, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contact_forms (id, name, email, phone, subject, message, read, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, form.ID, form.Name, form.Email, nullIfEmpty(form.Phone), form.Subject, form.Message, form.Read, form.CreatedAt)
	if err != nil {
		return nil, err
	}

	created := form
	return &created, nil
}

func (s *Store) ListContactForms(ctx context.Context, unreadOnly bool) ([]domain.ContactForm, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, phone, subject, message, read, created_at
		FROM contact_forms
		WHERE ($1 = false OR read = false)
		ORDER BY created_at DESC
	`, unreadOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	forms := make([]domain.ContactForm, 0, 32)
	for rows.Next() {
		var (
			f     domain.ContactForm
			phone sql.NullString
		)
		if err := rows.Scan(&f.ID, &f.Name, &f.Email, &phone, &f.Subject, &f.Message, &f.Read, &f.CreatedAt); err != nil {
			return nil, err
		}
		f.Phone = phone.String
		f.CreatedAt = f.CreatedAt.UTC()
		forms = append(forms, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return forms, nil
}

func (s *Store) MarkContactFormRead(ctx context.Context, id string) (*domain.ContactForm, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE contact_forms SET read = true WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}

	var (
		f     domain.ContactForm
		phone sql.NullString
	)
	err = s.db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, subject, message, read, created_at
		FROM contact_forms
		WHERE id = $1
	`, id).Scan(&f.ID, &f.Name, &f.Email, &phone, &f.Subject, &f.Message, &f.Read, &f.CreatedAt)
	if err != nil {
		return nil, err
	}
	f.Phone = phone.String
	f.CreatedAt = f.CreatedAt.UTC()
	return &f, nil
}

func (s *Store) GetAbout(ctx context.Context) (*domain.AboutContent, error) {
	var (
		content  domain.AboutContent
		mission  sql.NullString
		imageURL sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT title, body, mission, image_url, updated_at
		FROM site_about
		WHERE id = 1
	`).Scan(&content.Title, &content.Body, &mission, &imageURL, &content.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	content.Mission = mission.String
	content.ImageURL = imageURL.String
	content.UpdatedAt = content.UpdatedAt.UTC()
	return &content, nil
}

func (s *Store) UpsertAbout(ctx context.Context, content domain.AboutContent) (*domain.AboutContent, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO site_about (id, title, body, mission, image_url, updated_at)
		VALUES (1,$1,$2,$3,$4,$5)
		ON CONFLICT (id) DO UPDATE
		SET title = EXCLUDED.title, body = EXCLUDED.body, mission = EXCLUDED.mission,
		    image_url = EXCLUDED.image_url, updated_at = EXCLUDED.updated_at
	`, content.Title, content.Body, nullIfEmpty(content.Mission), nullIfEmpty(content.ImageURL), content.UpdatedAt)
	if err != nil {
		return nil, err
	}

	saved := content
	return &saved, nil
}

func (s *Store) GetSettings(ctx context.Context) (*domain.SiteSettings, error) {
	var (
		settings   domain.SiteSettings
		email      sql.NullString
		phone      sql.NullString
		address    sql.NullString
		socialJSON []byte
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT farm_name, contact_email, contact_phone, address, social_links, updated_at
		FROM site_settings
		WHERE id = 1
	`).Scan(&settings.FarmName, &email, &phone, &address, &socialJSON, &settings.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	settings.ContactEmail = email.String
	settings.ContactPhone = phone.String
	settings.Address = address.String
	if len(socialJSON) > 0 {
		if err := json.Unmarshal(socialJSON, &settings.SocialLinks); err != nil {
			return nil, err
		}
	}
	settings.UpdatedAt = settings.UpdatedAt.UTC()
	return &settings, nil
}

func (s *Store) UpsertSettings(ctx context.Context, settings domain.SiteSettings) (*domain.SiteSettings, error) {
	socialJSON, err := marshalOrNil(settings.SocialLinks, len(settings.SocialLinks) > 0)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO site_settings (id, farm_name, contact_email, contact_phone, address, social_links, updated_at)
		VALUES (1,$1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO UPDATE
		SET farm_name = EXCLUDED.farm_name, contact_email = EXCLUDED.contact_email,
		    contact_phone = EXCLUDED.contact_phone, address = EXCLUDED.address,
		    social_links = EXCLUDED.social_links, updated_at = EXCLUDED.updated_at
	`, settings.FarmName, nullIfEmpty(settings.ContactEmail), nullIfEmpty(settings.ContactPhone),
		nullIfEmpty(settings.Address), socialJSON, settings.UpdatedAt)
	if err != nil {
		return nil, err
	}

	saved := settings
	return &saved, nil
}

func (s *Store) CreateBlogPost(ctx context.Context, post domain.BlogPost) (*domain.BlogPost, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO blog_posts (id, title, body, author, published, image_url, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, post.ID, post.Title, post.Body, post.Author, post.Published, nullIfEmpty(post.ImageURL),
		post.CreatedAt, post.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}

	created := post
	return &created, nil
}

func scanBlogPost(row rowScanner) (*domain.BlogPost, error) {
	var (
		p        domain.BlogPost
		imageURL sql.NullString
	)
	err := row.Scan(&p.ID, &p.Title, &p.Body, &p.Author, &p.Published, &imageURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.ImageURL = imageURL.String
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}

func (s *Store) GetBlogPost(ctx context.Context, id string) (*domain.BlogPost, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, body, author, published, image_url, created_at, updated_at
		FROM blog_posts
		WHERE id = $1
	`, id)
	post, err := scanBlogPost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return post, nil
}

func (s *Store) ListBlogPosts(ctx context.Context, publishedOnly bool) ([]domain.BlogPost, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, body, author, published, image_url, created_at, updated_at
		FROM blog_posts
		WHERE ($1 = false OR published = true)
		ORDER BY created_at DESC
	`, publishedOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]domain.BlogPost, 0, 32)
	for rows.Next() {
		p, err := scanBlogPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *Store) UpdateBlogPost(ctx context.Context, post domain.BlogPost) (*domain.BlogPost, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE blog_posts
		SET title = $2, body = $3, author = $4, published = $5, image_url = $6, updated_at = $7
		WHERE id = $1
	`, post.ID, post.Title, post.Body, post.Author, post.Published, nullIfEmpty(post.ImageURL), post.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}

	updated := post
	return &updated, nil
}

func (s *Store) DeleteBlogPost(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *Store) CreateNFTRecord(ctx context.Context, record domain.NFTRecord) (*domain.NFTRecord, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO nft_records (id, inventory_id, token_id, chain, metadata_url, notes, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, record.ID, record.InventoryID, record.TokenID, record.Chain,
		nullIfEmpty(record.MetadataURL), nullIfEmpty(record.Notes), record.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}

	created := record
	return &created, nil
}

func (s *Store) ListNFTRecords(ctx context.Context, inventoryID string) ([]domain.NFTRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, inventory_id, token_id, chain, metadata_url, notes, created_at
		FROM nft_records
		WHERE ($1 = '' OR inventory_id = $1)
		ORDER BY created_at DESC
	`, inventoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]domain.NFTRecord, 0, 16)
	for rows.Next() {
		var (
			r           domain.NFTRecord
			metadataURL sql.NullString
			notes       sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.InventoryID, &r.TokenID, &r.Chain, &metadataURL, &notes, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.MetadataURL = metadataURL.String
		r.Notes = notes.String
		r.CreatedAt = r.CreatedAt.UTC()
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Store) DeleteNFTRecord(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM nft_records WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *Store) CreateUser(ctx context.Context, user domain.UserAccount) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, password_hash, role, active, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, user.Username, user.Password, user.Role, user.Active, user.CreatedAt)
	if isUniqueViolation(err) {
		return store.ErrConflict
	}
	return err
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.UserAccount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT username, password_hash, role, active, created_at
		FROM users
		ORDER BY username
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.UserAccount, 0, 8)
	for rows.Next() {
		var u domain.UserAccount
		if err := rows.Scan(&u.Username, &u.Password, &u.Role, &u.Active, &u.CreatedAt); err != nil {
			return nil, err
		}
		u.CreatedAt = u.CreatedAt.UTC()
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) UpdateUserPassword(ctx context.Context, username string, password string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET password_hash = $2 WHERE username = $1
	`, username, password)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *Store) CreateAuditLog(ctx context.Context, entry domain.AuditLog) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_logs (id, actor_username, actor_role, action, entity_type, entity_id, detail, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, entry.ID, entry.ActorUsername, entry.ActorRole, entry.Action, entry.EntityType, entry.EntityID,
		nullIfEmpty(entry.Detail), entry.CreatedAt)
	return err
}

func (s *Store) ListAuditLogs(ctx context.Context, entityType string, limit int) ([]domain.AuditLog, error) {
	if limit < 1 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, actor_username, actor_role, action, entity_type, entity_id, detail, created_at
		FROM audit_logs
		WHERE ($2 = '' OR entity_type = $2)
		ORDER BY created_at DESC
		LIMIT $1
	`, limit, entityType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]domain.AuditLog, 0, limit)
	for rows.Next() {
		var (
			entry  domain.AuditLog
			detail sql.NullString
		)
		if err := rows.Scan(&entry.ID, &entry.ActorUsername, &entry.ActorRole, &entry.Action,
			&entry.EntityType, &entry.EntityID, &detail, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entry.Detail = detail.String
		entry.CreatedAt = entry.CreatedAt.UTC()
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func nullIfEmpty(val string) any {
	if val == "" {
		return nil
	}
	return val
}

func nullDecimal(val *decimal.Decimal) any {
	if val == nil {
		return nil
	}
	return *val
}

func marshalOrNil(v any, present bool) (any, error) {
	if !present {
		return nil, nil
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return payload, nil
}
