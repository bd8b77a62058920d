package generator

const mapTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
   <meta charset="UTF-8"/>
   <meta name="viewport" content="width=device-width, initial-scale=1.0"/>
   <title>{{ .Title }}</title>
   <link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css" />
   <link rel="stylesheet" href="https://cdnjs.cloudflare.com/ajax/libs/leaflet.draw/1.0.4/leaflet.draw.css" />
   <link rel="stylesheet" href="https://unpkg.com/leaflet-velocity@2.1.4/dist/leaflet-velocity.min.css" />
   <script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
   <script src="https://cdnjs.cloudflare.com/ajax/libs/leaflet.draw/1.0.4/leaflet.draw.js"></script>
   <script src="https://unpkg.com/leaflet-velocity@2.1.4/dist/leaflet-velocity.min.js"></script>
   <style>
      :root {
         --bg-color: #121212;
         --text-color: #e0e0e0;
         --card-bg: #1e1e1e;
         --card-border: #333;
      }
      html, body { height: 100%; margin: 0; background-color: var(--bg-color); color: var(--text-color); font-family: Arial, sans-serif; }
      #map { height: 100%; width: 100%; }
      .hidden { display: none !important; }
      .nav-buttons { display: flex; align-items: center; background-color: var(--card-bg); border: 1px solid var(--card-border); border-radius: 5px; padding: 5px; }
      .nav-buttons button { cursor: pointer; }
      #timeSliceDisplay { margin: 0 10px; color: black; background-color: white; padding: 5px; white-space: nowrap; }
      .info.legend { background-color: white; color: black; padding: 6px 8px; border-radius: 5px; }
      .info.legend h4 { margin: 0 0 5px; text-align: center; }
      #loadingIcon { position: absolute; top: 50%; left: 50%; transform: translate(-50%, -50%); z-index: 1000; padding: 12px 18px; background-color: var(--card-bg); border: 1px solid var(--card-border); border-radius: 5px; }
   </style>
</head>
<body>
   <div id="map"></div>
   <div id="loadingIcon" class="hidden">Loading weather data...</div>
   <script>
      const apiBase = {{ .APIBase }};
      const baseMapConfig = {{ toJSON .BaseMaps }};
      const overlayConfig = {{ toJSON .Overlays }};

      const map = L.map('map').setView({{ toJSON .Center }}, {{ .Zoom }});

      const baseMaps = {};
      baseMapConfig.forEach(b => {
          baseMaps[b.Name] = L.tileLayer(b.URL, { attribution: b.Attribution, maxZoom: 20 });
          if (b.Default) baseMaps[b.Name].addTo(map);
      });

      const drawnItems = new L.FeatureGroup();
      map.addLayer(drawnItems);
      map.addControl(new L.Control.Draw({ edit: { featureGroup: drawnItems } }));
      map.on('draw:created', e => {
          drawnItems.addLayer(e.layer);
          console.log(e.layer.toGeoJSON());
      });

      const legendControl = L.control({ position: 'bottomright' });
      legendControl.onAdd = function () {
          const div = L.DomUtil.create('div', 'info legend hidden');
          overlayConfig.filter(o => o.Kind === 'wms' && o.LegendURL).forEach(o => {
              const block = document.createElement('div');
              block.className = 'legend-block hidden';
              block.dataset.overlay = o.Name;
              const title = document.createElement('h4');
              title.textContent = o.Name + ' Legend';
              const img = document.createElement('img');
              img.src = o.LegendURL;
              img.alt = 'Legend for ' + o.Name;
              block.appendChild(title);
              block.appendChild(img);
              div.appendChild(block);
          });
          return div;
      };
      legendControl.addTo(map);

      const navControl = L.control({ position: 'bottomleft' });
      navControl.onAdd = function () {
          const div = L.DomUtil.create('div', 'nav-buttons hidden');
          div.innerHTML = '<button id="prevBtn">Previous</button><div id="timeSliceDisplay"></div><button id="nextBtn">Next</button>';
          L.DomEvent.disableClickPropagation(div);
          return div;
      };
      navControl.addTo(map);

      let sessionID = null;
      const overlayLayers = {};

      async function api(method, path) {
          const response = await fetch(apiBase + path, { method });
          if (!response.ok) {
              const error = new Error(method + ' ' + path + ' returned ' + response.status);
              error.status = response.status;
              error.body = await response.json().catch(() => ({}));
              throw error;
          }
          return response.json();
      }

      const sessionPath = path => '/api/sessions/' + encodeURIComponent(sessionID) + path;
      const layerPath = name => '/layers/' + encodeURIComponent(name);

      // Sessions expire when idle. Start a new one, replay the overlays that
      // are on the map, then retry the call once.
      async function renewSession() {
          const view = await api('POST', '/api/sessions');
          sessionID = view.id;
          for (const [name, layer] of Object.entries(overlayLayers)) {
              if (map.hasLayer(layer)) await api('PUT', sessionPath(layerPath(name)));
          }
      }

      async function sessionCall(method, path) {
          try {
              return await api(method, sessionPath(path));
          } catch (error) {
              if (error.status !== 404 || error.body.error !== 'session not found') throw error;
              await renewSession();
              return api(method, sessionPath(path));
          }
      }

      function onSessionEvent(method, path) {
          sessionCall(method, path).then(applyView).catch(error => {
              console.error('Map update failed:', error);
          });
      }

      function applyView(view) {
          document.querySelector('.nav-buttons').classList.toggle('hidden', !view.navigation.visible);
          document.getElementById('timeSliceDisplay').textContent = view.navigation.label;

          let anyLegend = false;
          document.querySelectorAll('.legend-block').forEach(block => {
              const shown = !!view.legends[block.dataset.overlay];
              block.classList.toggle('hidden', !shown);
              anyLegend = anyLegend || shown;
          });
          document.querySelector('.info.legend').classList.toggle('hidden', !anyLegend);

          Object.entries(view.overlays).forEach(([name, state]) => {
              const layer = overlayLayers[name];
              if (layer && state.time && layer.wmsParams.time !== state.time) {
                  layer.setParams({ time: state.time });
              }
          });
      }

      async function waitForStartup() {
          for (;;) {
              const status = await api('GET', '/api/status');
              if (status.status !== 'loading') return status;
              await new Promise(resolve => setTimeout(resolve, 1000));
          }
      }

      async function fetchDataAndCreateLayers() {
          const loading = document.getElementById('loadingIcon');
          try {
              loading.classList.remove('hidden');

              const status = await waitForStartup();
              if (status.errors) console.warn('Some weather sources failed to load:', status.errors);

              const view = await api('POST', '/api/sessions');
              sessionID = view.id;

              for (const o of overlayConfig) {
                  if (o.Kind === 'wms') {
                      const params = { layers: o.Layer, format: 'image/png', transparent: true, opacity: o.Opacity };
                      const state = view.overlays[o.Name];
                      if (state && state.time) params.time = state.time;
                      overlayLayers[o.Name] = L.tileLayer.wms(o.WMSURL, params);
                  } else if (o.Kind === 'velocity') {
                      try {
                          const data = await api('GET', '/api/wind');
                          overlayLayers[o.Name] = L.velocityLayer({
                              displayValues: true,
                              displayOptions: {
                                  velocityType: o.VelocityType,
                                  displayPosition: 'bottomleft',
                                  displayEmptyString: 'No wind data'
                              },
                              data,
                              maxVelocity: o.MaxVelocity,
                              velocityScale: o.VelocityScale
                          });
                      } catch (error) {
                          console.error('Wind data unavailable:', error);
                      }
                  }
              }

              L.control.layers(baseMaps, overlayLayers).addTo(map);

              document.getElementById('prevBtn').addEventListener('click', () => onSessionEvent('POST', '/previous'));
              document.getElementById('nextBtn').addEventListener('click', () => onSessionEvent('POST', '/next'));
              map.on('overlayadd', e => onSessionEvent('PUT', layerPath(e.name)));
              map.on('overlayremove', e => onSessionEvent('DELETE', layerPath(e.name)));

              applyView(view);
          } catch (error) {
              console.error('Error fetching or creating layers:', error);
          } finally {
              loading.classList.add('hidden');
          }
      }

      fetchDataAndCreateLayers();
   </script>
</body>
</html>
`
