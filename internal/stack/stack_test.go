package stack

import "testing"

func TestDefault_AllServicesPresent(t *testing.T) {
	specs := Default()

	want := []string{
		ServicePostgres,
		ServiceMongo,
		ServiceRedis,
		ServiceRabbitMQ,
		ServiceElasticsearch,
		ServiceMinIO,
		ServiceAPI,
		ServiceAdminUI,
	}

	if len(specs) != len(want) {
		t.Fatalf("expected %d services, got %d", len(want), len(specs))
	}

	for _, name := range want {
		if _, ok := Lookup(specs, name); !ok {
			t.Errorf("service %s missing from default set", name)
		}
	}
}

func TestDefault_PortTable(t *testing.T) {
	specs := Default()

	tests := []struct {
		name string
		addr string
		mgmt string
	}{
		{ServicePostgres, "localhost:5432", ""},
		{ServiceMongo, "localhost:27017", ""},
		{ServiceRedis, "localhost:6379", ""},
		{ServiceRabbitMQ, "localhost:5672", "localhost:15672"},
		{ServiceElasticsearch, "localhost:9200", "localhost:9300"},
		{ServiceAPI, "localhost:8080", ""},
		{ServiceAdminUI, "localhost:8081", ""},
	}

	for _, tt := range tests {
		spec, ok := Lookup(specs, tt.name)
		if !ok {
			t.Errorf("%s: not found", tt.name)
			continue
		}
		if spec.Addr != tt.addr {
			t.Errorf("%s: addr = %s, want %s", tt.name, spec.Addr, tt.addr)
		}
		if spec.ManagementAddr != tt.mgmt {
			t.Errorf("%s: management addr = %s, want %s", tt.name, spec.ManagementAddr, tt.mgmt)
		}
	}
}

func TestLookup_UnknownService(t *testing.T) {
	if _, ok := Lookup(Default(), "kafka"); ok {
		t.Error("unknown service should not be found")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		status string
		want   Health
	}{
		{"Up 5 minutes (healthy)", HealthHealthy},
		{"Up 2 seconds", HealthHealthy},
		{"Up About a minute (health: starting)", HealthStarting},
		{"Up 10 minutes (unhealthy)", HealthDown},
		{"Exited (1) 3 minutes ago", HealthDown},
		{"Restarting (137) 5 seconds ago", HealthDown},
		{"Created", HealthDown},
		{"", HealthDown},
	}

	for _, tt := range tests {
		if got := Classify(tt.status); got != tt.want {
			t.Errorf("Classify(%q) = %s, want %s", tt.status, got, tt.want)
		}
	}
}

// Классификация тотальна: любой статус даёт одно из трёх значений.
func TestClassify_Total(t *testing.T) {
	statuses := []string{
		"", "garbage", "Up", "up", "UNHEALTHY", "starting",
		"Exited (0)", "Paused", "Dead", "Up 3 days (healthy)",
	}

	for _, status := range statuses {
		h := Classify(status)
		switch h {
		case HealthHealthy, HealthStarting, HealthDown:
		default:
			t.Errorf("Classify(%q) = %q: not a known Health value", status, h)
		}
	}
}

func TestHealth_IsHealthy(t *testing.T) {
	if !HealthHealthy.IsHealthy() {
		t.Error("HealthHealthy should be healthy")
	}
	if HealthStarting.IsHealthy() {
		t.Error("HealthStarting should not be healthy")
	}
	if HealthDown.IsHealthy() {
		t.Error("HealthDown should not be healthy")
	}
}
