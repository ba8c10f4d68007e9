package config

type Monitoring struct {
	Port             int    `default:"6601"`
	URLPrefix        string `default:"/coordinator"`
	MetricEnabled    bool   `fig:"metric_enabled"`
	ProfilingEnabled bool   `fig:"profiling_enabled"`
}

func (c *Monitoring) IsEnabled() bool { return c.MetricEnabled || c.ProfilingEnabled }

type Server struct {
	Address string `default:":8000"`
	Https   bool
	Tls     struct {
		Address   string `default:":443"`
		Domain    string
		HttpsKey  string
		HttpsCert string
	}
}

func (s *Server) GetAddr() string {
	if s.Https {
		return s.Tls.Address
	}
	return s.Address
}
